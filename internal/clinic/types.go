package clinic

// Patient mirrors the patient record exposed by the clinic REST backend.
type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// VisitDraft is the in-progress visit form state. The upload orchestrator
// mutates only StudyInstanceUID; everything else belongs to the form UI and
// is submitted as-is to the clinic backend.
type VisitDraft struct {
	PatientID        string `json:"patientId"`
	VisitDate        string `json:"visitDate"`
	Reason           string `json:"reason"`
	Diagnosis        string `json:"diagnosis"`
	Treatment        string `json:"treatment"`
	Notes            string `json:"notes"`
	FollowUpDate     string `json:"followUpDate,omitempty"`
	StudyInstanceUID string `json:"studyInstanceUid,omitempty"`
}

// Visit is a persisted visit as returned by the clinic backend.
type Visit struct {
	ID               string   `json:"id"`
	Patient          *Patient `json:"patient,omitempty"`
	VisitDate        string   `json:"visitDate"`
	Reason           string   `json:"reason"`
	Diagnosis        string   `json:"diagnosis"`
	Treatment        string   `json:"treatment"`
	Notes            string   `json:"notes"`
	FollowUpDate     string   `json:"followUpDate,omitempty"`
	StudyInstanceUID string   `json:"studyInstanceUid,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}
