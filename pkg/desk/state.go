package desk

import (
	"encoding/json"
	"time"
)

// Messages surfaced through State.UploadError or returned errors.
const (
	MsgPasteRequired  = "Please paste some resume text."
	MsgStoreFailed    = "Could not store resume data. Session storage might be full or disabled."
	MsgExtractFailed  = "Failed to extract text from resume."
	MsgUploadUnknown  = "An unknown error occurred during file upload."
	MsgResumeRequired = "Please upload a resume first."
)

// PastedResumeName labels text saved from the paste box.
const PastedResumeName = "Pasted Resume"

// Feature names accepted by NavigateToFeature.
const (
	FeatureAnalyzer  = "analyzer"
	FeatureInterview = "interview"
	FeatureSalary    = "salary"
)

var featurePaths = map[string]string{
	FeatureAnalyzer:  "/resume-analysis",
	FeatureInterview: "/interview-assistant",
	FeatureSalary:    "/salary-intelligence",
}

// FeaturePath returns the page for an exact feature name.
func FeaturePath(feature string) (string, bool) {
	p, ok := featurePaths[feature]
	return p, ok
}

// State is what the upload page renders. ResumeUploaded implies a non-empty
// ResumeText and a resumeData record in the session scope.
type State struct {
	ResumeUploaded   bool    `json:"resumeUploaded"`
	UploadedFileName string  `json:"uploadedFileName"`
	ResumeText       string  `json:"resumeText"`
	ManualResumeText string  `json:"manualResumeText"`
	IsUploading      bool    `json:"isUploading"`
	UploadError      *string `json:"uploadError"`
	DragOver         bool    `json:"dragOver"`
}

// SuccessVisible reports whether the success notice should be shown.
func SuccessVisible(s State) bool {
	return s.ResumeUploaded && s.UploadError == nil
}

// ErrorMessage returns the current error message or "".
func (s State) ErrorMessage() string {
	if s.UploadError == nil {
		return ""
	}
	return *s.UploadError
}

func (s State) clone() State {
	if s.UploadError != nil {
		msg := *s.UploadError
		s.UploadError = &msg
	}
	return s
}

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Record is the JSON stored under storage.KeyResumeData.
type Record struct {
	Text       string `json:"text"`
	FileName   string `json:"fileName"`
	UploadedAt string `json:"uploadedAt"`
}

func newRecord(text, fileName string, at time.Time) Record {
	return Record{Text: text, FileName: fileName, UploadedAt: at.UTC().Format(isoMillis)}
}

// UploadTime parses UploadedAt.
func (r Record) UploadTime() (time.Time, error) {
	return time.Parse(isoMillis, r.UploadedAt)
}

// DecodeRecord parses a stored resumeData value.
func DecodeRecord(raw string) (Record, error) {
	var r Record
	err := json.Unmarshal([]byte(raw), &r)
	return r, err
}
