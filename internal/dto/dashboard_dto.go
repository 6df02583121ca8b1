package dto

// StudentDashboardResponse aggregates everything a student sees after login.
type StudentDashboardResponse struct {
	Subjects        []SubjectResponse     `json:"subjects"`
	Practicals      []PracticalResponse   `json:"practicals"`
	Submissions     []SubmissionResponse  `json:"submissions"`
	Certificates    []CertificateResponse `json:"certificates"`
	ExamModeEnabled bool                  `json:"exam_mode_enabled"`
}

// TeacherDashboardResponse aggregates a teacher's review queues.
type TeacherDashboardResponse struct {
	Subjects               []SubjectResponse               `json:"subjects"`
	Practicals             []PracticalResponse             `json:"practicals"`
	Submissions            []SubmissionResponse            `json:"submissions"`
	Certificates           []CertificateResponse           `json:"certificates"`
	CertificateAttachments []CertificateAttachmentResponse `json:"certificate_attachments"`
}

// HODDashboardResponse aggregates the department view for a HOD.
type HODDashboardResponse struct {
	Students     []UserResponse        `json:"students"`
	Teachers     []UserResponse        `json:"teachers"`
	Subjects     []SubjectResponse     `json:"subjects"`
	Certificates []CertificateResponse `json:"certificates"`
	ExamMode     ExamModeResponse      `json:"exam_mode"`
}

// AdminDashboardResponse aggregates the global view for an admin.
type AdminDashboardResponse struct {
	Students    []UserResponse       `json:"students"`
	Teachers    []UserResponse       `json:"teachers"`
	HODs        []UserResponse       `json:"hods"`
	Examiners   []UserResponse       `json:"examiners"`
	Subjects    []SubjectResponse    `json:"subjects"`
	Submissions []SubmissionResponse `json:"submissions"`
}

// ExaminerDashboardResponse lists certificates waiting on the examiner.
type ExaminerDashboardResponse struct {
	Certificates []CertificateResponse `json:"certificates"`
}

// StudentLookupRequest is the examiner's roll-number search.
type StudentLookupRequest struct {
	Department string `query:"department" validate:"required"`
	Class      string `query:"class" validate:"required"`
	RollNumber string `query:"roll_number" validate:"required"`
	SubjectID  *uint  `query:"subject_id" validate:"omitempty,gt=0"`
}

// StudentLookupResponse is the examiner's view of one student's record.
type StudentLookupResponse struct {
	Student     UserResponse         `json:"student"`
	Submissions []SubmissionResponse `json:"submissions"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

// ShowcaseResponse lists the public best practicals, empty under exam mode.
type ShowcaseResponse struct {
	ExamModeEnabled bool                 `json:"exam_mode_enabled"`
	Submissions     []SubmissionResponse `json:"submissions"`
}
