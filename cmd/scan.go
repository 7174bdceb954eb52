package cmd

import (
	"strconv"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TunaEngine/OcarinaArranger-sub000/constants"
	"github.com/TunaEngine/OcarinaArranger-sub000/db"
	"github.com/TunaEngine/OcarinaArranger-sub000/midi"
	"github.com/TunaEngine/OcarinaArranger-sub000/util"
)

func init() {
	scanCmd.Flags().BoolVar(&scanStore, "store", false, "store each import report in DynamoDB")
	rootCmd.AddCommand(scanCmd)
}

var scanStore bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Imports every midi file under MEDIA_PATH",
	Long:  `Imports every midi file under MEDIA_PATH`,
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}

		scan(maxNum)
	},
}

func scan(maxNum int) {
	paths := util.GatherAllMidiPaths(constants.GetMediaDir(), maxNum)

	var numDone, numFailed, numLenient int
	progress := debounce.New(250 * time.Millisecond)

	for _, path := range paths {
		_, report, err := midi.ReadMidiFile(path, midi.ModeAuto)
		if err != nil {
			numFailed++
			logrus.WithField("file", path).WithError(err).Warn("skipping unimportable file")
			continue
		}
		numDone++
		if report.Mode == midi.ModeLenient {
			numLenient++
			logrus.WithFields(logrus.Fields{
				"file":   path,
				"issues": len(report.Issues),
			}).Info("imported with recovery")
		}
		if scanStore {
			db.PutImportReport(path, *report)
		}
		progress(func() {
			logrus.WithFields(logrus.Fields{
				"done":  numDone,
				"total": len(paths),
			}).Info("scan progress")
		})
	}

	logrus.WithFields(logrus.Fields{
		"imported": numDone,
		"lenient":  numLenient,
		"failed":   numFailed,
	}).Info("scan finished")
}
