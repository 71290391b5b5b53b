package main

import "strings"

var helpLines = []string{
	"journeymap help",
	"===============",
	"",
	"Mouse:",
	"------",
	"  Drag a node          Move it",
	"  Drag from a dot (o)  Draw a connection; release near another node's dot",
	"                       (@ marks the one it will snap to)",
	"  Click a dot          While drawing, connect to that node directly",
	"  Click a record       Pick catalog content, then click the canvas to place it",
	"",
	"Canvas:",
	"--------",
	"  Esc                  Cancel the connection being drawn",
	"  d                    Delete the node under the pointer",
	"  x                    Delete the connection under the pointer",
	"  r                    Rename the journey",
	"  c                    Clear the journey",
	"  u / U                Undo / redo",
	"  p                    Paste a content record from the clipboard",
	"  a                    Arrange the journey left to right",
	"  h/j/k/l              Pan (Shift moves faster), 0 resets",
	"",
	"Catalog:",
	"---------",
	"  ↑ / ↓                Select a record",
	"  Enter                Place the selected record with the next click",
	"  { / }                Previous / next campaign",
	"",
	"Export:",
	"-------",
	"  s                    Save <brand>-<campaign>-journey.json",
	"  S                    Save a PNG image",
	"  t                    Save the canvas as text",
	"  y                    Copy the journey JSON",
	"",
	"  q                    Quit",
	"",
	"Press any key to return",
}

func (m model) helpView() string {
	rows := m.height
	if rows < 1 {
		rows = len(helpLines)
	}
	start := m.helpScroll
	if last := len(helpLines) - rows; start > last {
		start = last
	}
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[start:end], "\n")
}
