package main

// handlePan scrolls the canvas. Shifted keys move twice as far.
func (m *model) handlePan(key string) bool {
	speed := m.getMoveSpeed(key)
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "K", "shift+up":
		m.panY -= speed
	case "j", "J", "shift+down":
		m.panY += speed
	default:
		return false
	}
	return true
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2 * panStep
	default:
		return panStep
	}
}

// moveCatalogSelection steps through the records of the current campaign.
func (m *model) moveCatalogSelection(delta int) {
	records := m.visibleCatalog()
	if len(records) == 0 {
		m.selected = 0
		return
	}
	m.selected = clamp(m.selected+delta, 0, len(records)-1)
	m.armed = false
}

// switchCampaign cycles through the campaigns found in the catalog.
func (m *model) switchCampaign(delta int) {
	if len(m.campaigns) == 0 {
		return
	}
	m.ctrl.Teardown()
	m.campaignIdx = (m.campaignIdx + delta + len(m.campaigns)) % len(m.campaigns)
	m.selected = 0
	m.armed = false
	campaign := m.campaigns[m.campaignIdx]
	if err := m.orch.Switch(m.orch.Brand(), campaign); err == nil {
		m.notices.info("Showing " + m.orch.Title())
	}
}
