package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"journeymap/internal/journey"
)

// rows above the first record in the catalog panel
const catalogHeaderRows = 3

// loadCatalog reads a JSON array of content records.
func loadCatalog(path string) ([]journey.Content, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var records []journey.Content
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("catalog record %d: %w", i, err)
		}
	}
	return records, nil
}

// campaignList is the all-campaigns view followed by each campaign named in
// the catalog, in order of first appearance. The initial campaign is always
// included.
func campaignList(catalog []journey.Content, initial string) []string {
	list := []string{journey.AllCampaigns}
	seen := map[string]bool{journey.AllCampaigns: true}
	add := func(c string) {
		c = strings.TrimSpace(c)
		if journey.IsAllCampaigns(c) || seen[strings.ToLower(c)] {
			return
		}
		seen[strings.ToLower(c)] = true
		list = append(list, c)
	}
	add(initial)
	for _, r := range catalog {
		add(r.Campaign)
	}
	return list
}

// visibleCatalog is the catalog filtered to the current campaign.
func (m *model) visibleCatalog() []journey.Content {
	campaign := m.orch.Campaign()
	if journey.IsAllCampaigns(campaign) {
		return m.catalog
	}
	var out []journey.Content
	for _, r := range m.catalog {
		if strings.EqualFold(strings.TrimSpace(r.Campaign), strings.TrimSpace(campaign)) {
			out = append(out, r)
		}
	}
	return out
}

func (m *model) selectedRecord() (journey.Content, bool) {
	records := m.visibleCatalog()
	if m.selected < 0 || m.selected >= len(records) {
		return journey.Content{}, false
	}
	return records[m.selected], true
}

// armSelected makes the next canvas click drop the selected record.
// Records already on the canvas cannot be added again.
func (m *model) armSelected() {
	r, ok := m.selectedRecord()
	if !ok {
		return
	}
	if m.orch.IsAdded(r.ID) {
		m.notices.info(r.Name + " is already on the canvas")
		return
	}
	m.ctrl.Teardown()
	m.armed = true
}

// catalogWindow returns the index of the first record shown and the number
// of record rows.
func (m *model) catalogWindow() (int, int) {
	rows := m.canvasHeight() - catalogHeaderRows
	if rows < 1 {
		rows = 1
	}
	offset := 0
	if m.selected >= rows {
		offset = m.selected - rows + 1
	}
	return offset, rows
}

func (m *model) clickCatalog(x, y int) {
	if x < m.canvasWidth() {
		return
	}
	row := y - m.layout().top - catalogHeaderRows
	offset, rows := m.catalogWindow()
	if row < 0 || row >= rows {
		return
	}
	idx := offset + row
	if idx >= len(m.visibleCatalog()) {
		return
	}
	m.selected = idx
	m.armSelected()
}

func (m *model) catalogLines() []string {
	width := catalogWidth - 3
	lines := []string{
		titleStyle.Render("Catalog"),
		subtleStyle.Render(truncateRunes(campaignLabel(m.orch.Campaign())+"  { }", width)),
		"",
	}
	records := m.visibleCatalog()
	if len(records) == 0 {
		return append(lines, subtleStyle.Render("No content"))
	}
	offset, rows := m.catalogWindow()
	for i := offset; i < len(records) && i < offset+rows; i++ {
		r := records[i]
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		label := truncateRunes(marker+r.Name+" ("+r.Format+")", width)
		switch {
		case m.orch.IsAdded(r.ID):
			lines = append(lines, disableStyle.Render(label))
		case i == m.selected:
			lines = append(lines, selectStyle.Render(label))
		default:
			lines = append(lines, label)
		}
	}
	return lines
}
