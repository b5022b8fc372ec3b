package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zoner-draw/zmf/internal/collector"
	"github.com/zoner-draw/zmf/internal/streamio"
	"github.com/zoner-draw/zmf/pkg/zmf"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zmfinfo",
	Short: "Inspect legacy Zoner Draw, Zebra and Bitmap (ZMF) documents",
	Long: `zmfinfo reads legacy Zoner Draw/Callisto (Zoner-4), Zoner Zebra and
Zoner Bitmap documents.

It can detect which of the three formats a file carries and dump the
document it describes as a flat JSON event log, for inspection or
piping into another tool's own sink.`,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect <input>",
	Short: "Report which format, if any, a file carries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	s, closeFn, err := openStream(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	det, err := zmf.IsSupported(cmd.Context(), s, zmf.Options{Logger: logrus.StandardLogger()})
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	if !det.Supported {
		fmt.Println("unsupported")
		return nil
	}
	fmt.Println(det.Kind.String())
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump <input>",
	Short: "Parse a file and dump its drawing events as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func runDump(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	s, closeFn, err := openStream(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	sink := newEventSink()
	ok, err := zmf.Parse(cmd.Context(), s, sink, zmf.Options{Logger: logrus.StandardLogger()})
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if !ok {
		return fmt.Errorf("parse: unsupported or malformed file")
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sink.events)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zmfinfo %s (commit %s, built %s)\n", version, commit, date)
	},
}

// openStream opens path as a flat file stream. Container formats are
// handled by internal/container at the call site that has a mounted
// filesystem.FileSystem available; this CLI only ever sees plain files.
func openStream(path string) (streamio.Stream, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat input file: %w", err)
	}
	return streamio.NewFlatStream(f, stat.Size()), func() { f.Close() }, nil
}

// event is one recorded sink call, in the order the parser emitted it.
type event struct {
	Call string         `json:"call"`
	Args map[string]any `json:"args,omitempty"`
}

// eventSink is a collector.Sink that just records every call it receives,
// for inspection rather than rendering into a real document format.
type eventSink struct {
	events []event
}

func newEventSink() *eventSink { return &eventSink{} }

func (s *eventSink) record(call string, args map[string]any) {
	s.events = append(s.events, event{Call: call, Args: args})
}

func (s *eventSink) StartDocument(props collector.PropertyList) { s.record("StartDocument", nil) }
func (s *eventSink) EndDocument()                               { s.record("EndDocument", nil) }
func (s *eventSink) StartPage(props collector.PropertyList) {
	s.record("StartPage", map[string]any{"props": props})
}
func (s *eventSink) EndPage()                         { s.record("EndPage", nil) }
func (s *eventSink) OpenLayer(props collector.PropertyList)  { s.record("OpenLayer", nil) }
func (s *eventSink) CloseLayer()                      { s.record("CloseLayer", nil) }
func (s *eventSink) OpenGroup(props collector.PropertyList)  { s.record("OpenGroup", nil) }
func (s *eventSink) CloseGroup()                      { s.record("CloseGroup", nil) }
func (s *eventSink) SetStyle(props collector.PropertyList) {
	s.record("SetStyle", map[string]any{"props": props})
}
func (s *eventSink) DrawPath(path []collector.PathAction) {
	s.record("DrawPath", map[string]any{"actions": len(path)})
}
func (s *eventSink) DrawGraphicObject(props collector.PropertyList) {
	s.record("DrawGraphicObject", map[string]any{"props": props})
}
func (s *eventSink) StartTextObject(props collector.PropertyList) {
	s.record("StartTextObject", map[string]any{"props": props})
}
func (s *eventSink) EndTextObject()                 { s.record("EndTextObject", nil) }
func (s *eventSink) OpenParagraph(props collector.PropertyList) { s.record("OpenParagraph", nil) }
func (s *eventSink) CloseParagraph()                { s.record("CloseParagraph", nil) }
func (s *eventSink) OpenSpan(props collector.PropertyList) {
	s.record("OpenSpan", map[string]any{"props": props})
}
func (s *eventSink) CloseSpan()      { s.record("CloseSpan", nil) }
func (s *eventSink) InsertText(text string) {
	s.record("InsertText", map[string]any{"text": text})
}
func (s *eventSink) InsertSpace()    { s.record("InsertSpace", nil) }
func (s *eventSink) StartTableObject(props collector.PropertyList) {
	s.record("StartTableObject", map[string]any{"props": props})
}
func (s *eventSink) EndTableObject() { s.record("EndTableObject", nil) }
func (s *eventSink) OpenTableRow(props collector.PropertyList) {
	s.record("OpenTableRow", nil)
}
func (s *eventSink) CloseTableRow()  { s.record("CloseTableRow", nil) }
func (s *eventSink) OpenTableCell(props collector.PropertyList) {
	s.record("OpenTableCell", nil)
}
func (s *eventSink) CloseTableCell() { s.record("CloseTableCell", nil) }
