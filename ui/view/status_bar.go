package view

import (
	"github.com/soocke/roi-annotator/ui/model"
	"github.com/soocke/roi-annotator/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatusBar shows the mode label, the status line and the annotation tally.
type StatusBar interface {
	SetMode(text string)
	SetStatus(text string, sev model.Severity)
	SetTally(text string)
}

type statusBar struct {
	modeLbl   *TLabelWidget
	statusLbl *TLabelWidget
	tallyLbl  *TLabelWidget
}

// NewStatusBar creates the mode label at (row, 0), the status line in the
// middle columns and the tally at the right edge.
func NewStatusBar(row int) StatusBar {
	s := &statusBar{
		modeLbl:   TLabel(Style(theme.StyleModeLabel), Txt("Mode: idle"), Width(24)),
		statusLbl: TLabel(Style(theme.StyleStatusLabel), Txt(""), Anchor("w")),
		tallyLbl:  TLabel(Style(theme.StyleStatusLabel), Txt(""), Anchor("e")),
	}
	Grid(s.modeLbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	Grid(s.statusLbl, Row(row), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Grid(s.tallyLbl, Row(row), Column(3), Sticky("e"), Padx("0.4m"), Pady("0.3m"))
	return s
}

func (s *statusBar) SetMode(text string) {
	if s == nil || s.modeLbl == nil {
		return
	}
	s.modeLbl.Configure(Txt(text))
}

func (s *statusBar) SetStatus(text string, sev model.Severity) {
	if s == nil || s.statusLbl == nil {
		return
	}
	s.statusLbl.Configure(Txt(text), Foreground(theme.StatusColor(sev.String())))
}

func (s *statusBar) SetTally(text string) {
	if s == nil || s.tallyLbl == nil {
		return
	}
	s.tallyLbl.Configure(Txt(text))
}
