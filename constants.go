package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeRename
	ModeConfirm
	ModeHelp
)

type ConfirmAction int

const (
	ConfirmClear ConfirmAction = iota
	ConfirmDeleteNode
)

const (
	catalogWidth = 32
	panStep      = 2
	// minimum node size in cells, whatever the pixel size
	minBoxWidth  = 8
	minBoxHeight = 3
	// rows taken by the title bar and the status line
	chromeRows = 2
)

// canvas glyphs
const (
	glyphCorner     = '+'
	glyphHorizontal = '-'
	glyphVertical   = '|'
	glyphSelected   = '#'
	glyphAnchor     = 'o'
	glyphSnap       = '@'
	glyphPreview    = '.'
)
