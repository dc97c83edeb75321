package orthanc

// StudyDetails holds selected information about a DICOM study from Orthanc.
// Field names match the JSON keys returned by Orthanc's REST API,
// specifically PatientMainDicomTags and MainDicomTags.
type StudyDetails struct {
	ID              string `json:"ID"` // Orthanc's internal Study ID
	PatientMainTags struct {
		PatientName string `json:"PatientName,omitempty"`
		PatientID   string `json:"PatientID,omitempty"`
	} `json:"PatientMainDicomTags"`
	MainTags struct {
		StudyInstanceUID string `json:"StudyInstanceUID,omitempty"`
		StudyDate        string `json:"StudyDate,omitempty"`
		StudyTime        string `json:"StudyTime,omitempty"`
		StudyDescription string `json:"StudyDescription,omitempty"`
		AccessionNumber  string `json:"AccessionNumber,omitempty"`
	} `json:"MainDicomTags"`
	Series     []string `json:"Series"`   // Orthanc Series IDs within this study
	IsStable   bool     `json:"IsStable"` // Useful status flag from Orthanc
	LastUpdate string   `json:"LastUpdate"`
	Type       string   `json:"Type"` // Should be "Study"
}

// StoreResult mirrors the JSON Orthanc returns when it accepts a DICOM
// object via POST /instances. The gateway relays this body untouched; the
// upload orchestrator parses it out of the relayed response.
type StoreResult struct {
	ID            string `json:"ID"` // Orthanc's internal Instance ID
	ParentPatient string `json:"ParentPatient,omitempty"`
	ParentSeries  string `json:"ParentSeries,omitempty"`
	ParentStudy   string `json:"ParentStudy,omitempty"`
	Path          string `json:"Path,omitempty"`
	Status        string `json:"Status"` // "Success" or "AlreadyStored"
}

// Accepted reports whether Orthanc stored the object.
func (r *StoreResult) Accepted() bool {
	return r != nil && (r.Status == "Success" || r.Status == "AlreadyStored")
}

// RelayedResponse carries an upstream Orthanc response verbatim so the
// gateway can pass it through without interpreting it.
type RelayedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
