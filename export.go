package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"journeymap/internal/export"
)

func (m *model) exportJSON() {
	path, err := export.WriteJSON(m.cfg.Export.Directory, m.orch.Brand(), m.orch.Campaign(), m.orch.Snapshot())
	if err != nil {
		m.log.Error("export json", zap.Error(err))
		m.notices.error("Export failed: " + err.Error())
		return
	}
	m.notices.info("Exported " + path)
}

func (m *model) exportPNG() {
	if err := os.MkdirAll(m.cfg.Export.Directory, 0o755); err != nil {
		m.notices.error("Export failed: " + err.Error())
		return
	}
	path := filepath.Join(m.cfg.Export.Directory, export.PNGFileName(m.orch.Brand(), m.orch.Campaign()))
	err := export.PNG(m.orch.Snapshot(), path, export.PNGOptions{Size: m.nodeSize()})
	if err != nil {
		m.log.Error("export png", zap.Error(err))
		m.notices.error("Export failed: " + err.Error())
		return
	}
	m.notices.info("Exported " + path)
}

func (m *model) copyJSON() {
	data, err := export.JSON(m.orch.Snapshot())
	if err == nil {
		err = clipboard.WriteAll(string(data))
	}
	if err != nil {
		m.log.Warn("copy json", zap.Error(err))
		m.notices.error("Could not copy the journey to the clipboard")
		return
	}
	m.notices.info("Copied journey JSON to the clipboard")
}

// exportVisualTXT writes the canvas exactly as it appears on screen, without
// the gesture overlay.
func (m *model) exportVisualTXT() {
	if err := os.MkdirAll(m.cfg.Export.Directory, 0o755); err != nil {
		m.notices.error("Export failed: " + err.Error())
		return
	}
	name := strings.TrimSuffix(export.FileName(m.orch.Brand(), m.orch.Campaign()), ".json") + ".txt"
	path := filepath.Join(m.cfg.Export.Directory, name)

	canvas := NewCanvas(m.layout(), m.canvasWidth(), m.canvasHeight(), m.orch.Nodes(), m.orch.Connections())
	var b strings.Builder
	fmt.Fprintln(&b, m.orch.Title())
	for _, line := range canvas.Render() {
		fmt.Fprintln(&b, strings.TrimRight(line, " "))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		m.notices.error("Export failed: " + err.Error())
		return
	}
	m.notices.info("Exported " + path)
}
