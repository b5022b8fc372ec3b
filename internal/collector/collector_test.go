package collector

import (
	"reflect"
	"testing"

	"github.com/zoner-draw/zmf/internal/model"
)

// fakeSink records every call it receives, in order, as a short tag plus
// the PropertyList/args it was given - just enough to assert against
// without reimplementing a real drawing backend.
type fakeSink struct {
	calls     []string
	styles    []PropertyList
	paths     [][]PathAction
	pageProps []PropertyList
}

func (f *fakeSink) StartDocument(p PropertyList) { f.calls = append(f.calls, "StartDocument") }
func (f *fakeSink) EndDocument()                 { f.calls = append(f.calls, "EndDocument") }
func (f *fakeSink) StartPage(p PropertyList) {
	f.calls = append(f.calls, "StartPage")
	f.pageProps = append(f.pageProps, p)
}
func (f *fakeSink) EndPage()             { f.calls = append(f.calls, "EndPage") }
func (f *fakeSink) OpenLayer(p PropertyList)  { f.calls = append(f.calls, "OpenLayer") }
func (f *fakeSink) CloseLayer()          { f.calls = append(f.calls, "CloseLayer") }
func (f *fakeSink) OpenGroup(p PropertyList)  { f.calls = append(f.calls, "OpenGroup") }
func (f *fakeSink) CloseGroup()          { f.calls = append(f.calls, "CloseGroup") }
func (f *fakeSink) SetStyle(p PropertyList) {
	f.calls = append(f.calls, "SetStyle")
	f.styles = append(f.styles, p)
}
func (f *fakeSink) DrawPath(path []PathAction) {
	f.calls = append(f.calls, "DrawPath")
	f.paths = append(f.paths, path)
}
func (f *fakeSink) DrawGraphicObject(p PropertyList) { f.calls = append(f.calls, "DrawGraphicObject") }
func (f *fakeSink) StartTextObject(p PropertyList)   { f.calls = append(f.calls, "StartTextObject") }
func (f *fakeSink) EndTextObject()                   { f.calls = append(f.calls, "EndTextObject") }
func (f *fakeSink) OpenParagraph(p PropertyList)      { f.calls = append(f.calls, "OpenParagraph") }
func (f *fakeSink) CloseParagraph()                   { f.calls = append(f.calls, "CloseParagraph") }
func (f *fakeSink) OpenSpan(p PropertyList)           { f.calls = append(f.calls, "OpenSpan") }
func (f *fakeSink) CloseSpan()                        { f.calls = append(f.calls, "CloseSpan") }
func (f *fakeSink) InsertText(s string)               { f.calls = append(f.calls, "InsertText:"+s) }
func (f *fakeSink) InsertSpace()                      { f.calls = append(f.calls, "InsertSpace") }
func (f *fakeSink) StartTableObject(p PropertyList)   { f.calls = append(f.calls, "StartTableObject") }
func (f *fakeSink) EndTableObject()                   { f.calls = append(f.calls, "EndTableObject") }
func (f *fakeSink) OpenTableRow(p PropertyList)       { f.calls = append(f.calls, "OpenTableRow") }
func (f *fakeSink) CloseTableRow()                    { f.calls = append(f.calls, "CloseTableRow") }
func (f *fakeSink) OpenTableCell(p PropertyList)      { f.calls = append(f.calls, "OpenTableCell") }
func (f *fakeSink) CloseTableCell()                   { f.calls = append(f.calls, "CloseTableCell") }

func TestLifecycleIsIdempotentAndNested(t *testing.T) {
	sink := &fakeSink{}
	c := New(sink)

	c.StartDocument()
	c.StartDocument() // no-op, already started
	c.StartPage(model.NewPageSettings())
	c.StartLayer()
	c.Close() // must cascade EndLayer -> EndPage -> EndDocument

	want := []string{"StartDocument", "StartPage", "OpenLayer", "CloseLayer", "EndPage", "EndDocument"}
	if !reflect.DeepEqual(sink.calls, want) {
		t.Errorf("calls = %v, want %v", sink.calls, want)
	}
}

func TestCreatePathClosedTriangle(t *testing.T) {
	c := New(&fakeSink{})
	curve := model.Curve{
		Points:       []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
		SectionTypes: []model.CurveSectionType{model.SectionLine, model.SectionLine},
		Closed:       true,
	}
	actions := c.createPath([]model.Curve{curve})
	if len(actions) != 4 {
		t.Fatalf("len(actions) = %d, want 4 (M, L, L, Z)", len(actions))
	}
	wantActions := []string{"M", "L", "L", "Z"}
	for i, a := range actions {
		if a.Action != wantActions[i] {
			t.Errorf("actions[%d].Action = %q, want %q", i, a.Action, wantActions[i])
		}
	}
	if got := actions[1].Points[0]["svg:x"]; got != 1.0 {
		t.Errorf("actions[1] svg:x = %v, want 1.0", got)
	}
}

func TestCreatePathSkipsDegenerateCurves(t *testing.T) {
	c := New(&fakeSink{})
	actions := c.createPath([]model.Curve{{Points: []model.Point{{X: 0, Y: 0}}}})
	if len(actions) != 0 {
		t.Errorf("createPath() with a single-point curve produced %d actions, want 0", len(actions))
	}
}

func TestCollectPathSuppressesFillWhenNoCurveIsClosed(t *testing.T) {
	sink := &fakeSink{}
	c := New(sink)
	c.SetStyle(model.Style{Fill: model.Color{R: 255}})

	open := model.Curve{Points: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, SectionTypes: []model.CurveSectionType{model.SectionLine}}
	c.CollectPath([]model.Curve{open})

	if len(sink.styles) != 1 {
		t.Fatalf("len(styles) = %d, want 1", len(sink.styles))
	}
	if got := sink.styles[0]["draw:fill"]; got != "none" {
		t.Errorf("draw:fill = %v, want \"none\" for an all-open path", got)
	}
}

func TestCollectPathFillsWhenAnyCurveIsClosed(t *testing.T) {
	sink := &fakeSink{}
	c := New(sink)
	c.SetStyle(model.Style{Fill: model.Color{R: 10, G: 20, B: 30}})

	closed := model.Curve{Points: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, SectionTypes: []model.CurveSectionType{model.SectionLine, model.SectionLine}, Closed: true}
	c.CollectPath([]model.Curve{closed})

	if got := sink.styles[0]["draw:fill"]; got != "solid" {
		t.Errorf("draw:fill = %v, want \"solid\"", got)
	}
	if got := sink.styles[0]["draw:fill-color"]; got != "#0a141e" {
		t.Errorf("draw:fill-color = %v, want #0a141e", got)
	}
}

func TestWritePenSolidVsDashed(t *testing.T) {
	props := PropertyList{}
	writePen(props, model.Pen{Color: model.Color{R: 1, G: 2, B: 3}, Width: 0.5}, nil)
	if props["draw:stroke"] != "solid" {
		t.Errorf("draw:stroke = %v, want solid for an empty dash pattern", props["draw:stroke"])
	}

	dashed := PropertyList{}
	writePen(dashed, model.Pen{Color: model.Color{}, DashPattern: []float64{2, 4, 6}}, nil)
	if dashed["draw:stroke"] != "dash" {
		t.Errorf("draw:stroke = %v, want dash", dashed["draw:stroke"])
	}
	if dashed["draw:dots1-length"] != 2.0 || dashed["draw:dots2-length"] != 6.0 || dashed["draw:distance"] != 4.0 {
		t.Errorf("dash lengths = %v/%v/%v, want 2/6/4", dashed["draw:dots1-length"], dashed["draw:dots2-length"], dashed["draw:distance"])
	}
}

func TestWriteGradientLinearSortsAscending(t *testing.T) {
	g := model.Gradient{
		Type: model.GradientLinear,
		Stops: []model.GradientStop{
			{Color: model.Color{R: 255}, Offset: 1},
			{Color: model.Color{G: 255}, Offset: 0},
		},
	}
	props := PropertyList{}
	writeGradient(props, g, nil)
	stops, ok := props["svg:linearGradient"].([]PropertyList)
	if !ok || len(stops) != 2 {
		t.Fatalf("svg:linearGradient = %v, want a 2-entry []PropertyList", props["svg:linearGradient"])
	}
	if stops[0]["svg:offset"] != 0.0 {
		t.Errorf("stops[0] offset = %v, want 0 (ascending order)", stops[0]["svg:offset"])
	}
}

func TestWriteGradientTooFewStopsIsANoOp(t *testing.T) {
	props := PropertyList{}
	writeGradient(props, model.Gradient{Type: model.GradientLinear, Stops: []model.GradientStop{{Offset: 0}}}, nil)
	if len(props) != 0 {
		t.Errorf("writeGradient() with 1 stop wrote %v, want no properties", props)
	}
}

func TestTransparencyOpacity(t *testing.T) {
	tr := model.Transparency{Color: model.Color{R: 255}}
	if got := tr.Opacity(); got != 0 {
		t.Errorf("Opacity() = %v, want 0 for a fully-red transparency color", got)
	}
}
