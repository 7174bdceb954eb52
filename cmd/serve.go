package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TunaEngine/OcarinaArranger-sub000/midi"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves the import endpoint",
	Long:  `serves the import endpoint`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}

// HandleImport decodes the midi file in the request body. The import mode
// comes from the "mode" query parameter and defaults to auto.
func HandleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	mode := r.URL.Query().Get("mode")
	_, report, err := midi.Decode(data, mode)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, midi.ErrInvalidMode) {
			status = http.StatusBadRequest
		}
		logrus.WithError(err).Info("rejected import")
		writeError(w, status, err.Error())
		return
	}

	logrus.WithFields(logrus.Fields{
		"report": report.ID,
		"mode":   report.Mode,
		"issues": len(report.Issues),
	}).Info("imported")
	json.NewEncoder(w).Encode(model.ImportResponse{Report: *report})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/import", HandleImport).Methods("POST")
	handler := cors.Default().Handler(router)
	logrus.Fatal(http.ListenAndServe(":8080", handler))
}
