package main

import (
	"go.uber.org/zap"

	"journeymap/internal/config"
	"journeymap/internal/drag"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

type model struct {
	width  int
	height int
	panX   int
	panY   int

	cfg  *config.Config
	log  *zap.Logger
	orch *journey.Orchestrator
	ctrl *drag.Controller

	// mouse collects the tracking-mode commands the drag controller asks
	// for while handling one event.
	mouse   *mouseTracking
	notices *noticeLog

	catalog     []journey.Content
	campaigns   []string
	campaignIdx int
	selected    int
	// armed is set when the selected catalog record will be dropped on the
	// next canvas click.
	armed bool

	// pointer is the last pointer position in canvas pixels.
	pointer    geometry.Point
	hasPointer bool

	mode          Mode
	confirmAction ConfirmAction
	confirmNodeID string
	editText      string
	helpScroll    int
}

// layout converts between terminal cells and canvas pixels.
type layout struct {
	cellW, cellH float64
	size         geometry.Size
	// origin of the canvas area on screen
	left, top  int
	panX, panY int
}

type cell struct{ X, Y int }
