package main

func (m *model) undo() {
	m.ctrl.Teardown()
	changed, err := m.orch.Undo()
	switch {
	case err != nil:
		// the orchestrator has already raised a notice
	case !changed:
		m.notices.info("Nothing to undo")
	default:
		m.notices.info("Undone")
	}
}

func (m *model) redo() {
	m.ctrl.Teardown()
	changed, err := m.orch.Redo()
	switch {
	case err != nil:
	case !changed:
		m.notices.info("Nothing to redo")
	default:
		m.notices.info("Redone")
	}
}
