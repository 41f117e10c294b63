// Package mapui contains the Datastar SSE handlers that drive the landing
// page map: the per-session event stream, legend visibility, and layer
// toggling.
package mapui

import (
	"html/template"

	"go.uber.org/zap"

	"github.com/uwincm/gaia-hazlab-catalog/internal/humastar"
	"github.com/uwincm/gaia-hazlab-catalog/internal/legend"
	"github.com/uwincm/gaia-hazlab-catalog/internal/templates"
)

// legendSelector is the container the host page reserves for legends.
const legendSelector = "#map-legend"

// sseScreen shows legends by patching the page's legend container. It
// implements legend.Screen for one browser session.
type sseScreen struct {
	sse      humastar.SSE
	renderer *templates.Renderer
	log      *zap.Logger
}

type legendPanelData struct {
	ID      int
	Content template.HTML
}

func (s *sseScreen) Attach(l legend.Legend) {
	html, err := s.renderer.Render("legend-panel", legendPanelData{
		ID:      l.ID,
		Content: template.HTML(l.HTML),
	})
	if err != nil {
		s.log.Warn("render legend panel", zap.Int("legend", l.ID), zap.Error(err))
		return
	}
	s.sse.Patch(html, legendSelector)
}

func (s *sseScreen) Detach(l legend.Legend) {
	s.sse.Clear(legendSelector)
}
