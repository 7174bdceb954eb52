package cmd

import (
	"fmt"

	"github.com/TunaEngine/OcarinaArranger-sub000/midi"
	"github.com/TunaEngine/OcarinaArranger-sub000/util"
	"github.com/spf13/cobra"
)

func init() {
	inspectCmd.Flags().StringVar(&inspectMode, "mode", midi.ModeAuto, "import mode: strict, lenient or auto")
	rootCmd.AddCommand(inspectCmd)
}

var inspectMode string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decodes one midi file and prints its import report",
	Long:  `Decodes one midi file and prints its import report`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0], inspectMode)
	},
}

func inspect(path string, mode string) {
	score, report, err := midi.ReadMidiFile(path, mode)
	if err != nil {
		panic("Could not import " + path + ": " + err.Error())
	}

	fmt.Printf("mode: %v\n", report.Mode)
	fmt.Printf("pulses per quarter: %v\n", score.PulsesPerQuarter)
	fmt.Printf("notes: %v\n", len(score.Events))
	fmt.Printf("assumed tempo: %v bpm\n", report.AssumedTempoBPM)
	fmt.Printf("assumed time signature: %v/%v\n", report.AssumedBeats, report.AssumedBeatUnit)
	for _, ch := range util.GetKeysSorted(score.Programs) {
		fmt.Printf("channel %v program: %v\n", ch, score.Programs[ch])
	}
	for _, tc := range score.TempoChanges {
		fmt.Printf("tempo @%v: %.2f bpm\n", tc.Tick, tc.BPM)
	}
	if len(report.SyntheticEOTTracks) > 0 {
		fmt.Printf("tracks missing end-of-track: %v\n", report.SyntheticEOTTracks)
	}
	for _, issue := range report.Issues {
		fmt.Printf("track %v @%v (offset %v): %v\n", issue.TrackIndex, issue.Tick, issue.Offset, issue.Detail)
	}
}
