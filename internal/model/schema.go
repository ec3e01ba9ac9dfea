package model

// StructuredData is the fixed nested schema describing a school. Every
// leaf starts at an empty string or empty list and is only overwritten
// by fields actually present in raw input, so downstream consumers can
// rely on the full shape being there regardless of how sparse the
// source site was.
//
// Design decision: the schema is a typed struct rather than a free-form
// map. The shape is part of the output contract, and a struct makes it
// impossible for one record's mutation to leak into another — every
// record gets its own value from NewStructuredData.
type StructuredData struct {
	SchoolInfo  SchoolInfo  `json:"school_info"`
	Education   Education   `json:"education"`
	Admissions  Admissions  `json:"admissions"`
	Events      []string    `json:"events"`
	Campus      Campus      `json:"campus"`
	StudentLife StudentLife `json:"student_life"`
	Employment  Employment  `json:"employment"`
	Policies    Policies    `json:"policies"`
	Staff       Staff       `json:"staff"`
}

// SchoolInfo covers the school's identity and contact details.
type SchoolInfo struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Contact       Contact  `json:"contact"`
	Affiliations  []string `json:"affiliations"`
	Accreditation []string `json:"accreditation"`
}

// Contact is a school's contact information.
type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Education covers programs, curriculum and support offerings.
type Education struct {
	ProgramsOffered           []string `json:"programs_offered"`
	Curriculum                string   `json:"curriculum"`
	AcademicSupport           []string `json:"academic_support"`
	ExtracurricularActivities []string `json:"extracurricular_activities"`
}

// Admissions covers acceptance policy, guidelines and fees.
type Admissions struct {
	AcceptancePolicy      string        `json:"acceptance_policy"`
	ApplicationGuidelines string        `json:"application_guidelines"`
	AgeRequirements       string        `json:"age_requirements"`
	Fees                  string        `json:"fees"`
	BreakdownFees         BreakdownFees `json:"breakdown_fees"`
	Procedure             string        `json:"procedure"`
}

// BreakdownFees itemizes fees by grade band.
type BreakdownFees struct {
	ApplicationFee  string  `json:"application_fee"`
	DayCareFee      FeeBand `json:"day_care_fee"`
	Kindergarten    FeeBand `json:"kindergarten"`
	GradeElementary FeeBand `json:"grade_elementary"`
	GradeJuniorHigh FeeBand `json:"grade_junior_high"`
	GradeHighSchool FeeBand `json:"grade_high_school"`
	SummerSchool    FeeBand `json:"summer_school"`
	Other           FeeBand `json:"other"`
}

// FeeBand is the fee breakdown for one grade band.
type FeeBand struct {
	Tuition         string `json:"tuition"`
	RegistrationFee string `json:"registration_fee"`
	MaintenanceFee  string `json:"maintenance_fee"`
}

// Campus covers facilities and virtual tour information.
type Campus struct {
	Facilities  []string `json:"facilities"`
	VirtualTour string   `json:"virtual_tour"`
}

// StudentLife covers counseling, support services and campus life.
type StudentLife struct {
	Counseling      string   `json:"counseling"`
	SupportServices []string `json:"support_services"`
	Library         string   `json:"library"`
	Calendar        string   `json:"calendar"`
	Tour            string   `json:"tour"`
}

// Employment covers open positions and the hiring process.
type Employment struct {
	OpenPositions      []string `json:"open_positions"`
	ApplicationProcess string   `json:"application_process"`
}

// Policies covers the school's published policy documents.
type Policies struct {
	PrivacyPolicy string `json:"privacy_policy"`
	TermsOfUse    string `json:"terms_of_use"`
}

// Staff holds the people attached to a school.
type Staff struct {
	StaffList    []StaffMember `json:"staff_list"`
	BoardMembers []StaffMember `json:"board_members"`
}

// StaffMember is one person on a school's staff or board. Staff lists
// are deduplicated by exact (Name, Role) equality.
type StaffMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// NewStructuredData returns a structured data block with every leaf at
// its empty default. A fresh value is built on each call, so records
// never share slice backing storage.
func NewStructuredData() StructuredData {
	return StructuredData{
		SchoolInfo: SchoolInfo{
			Affiliations:  []string{},
			Accreditation: []string{},
		},
		Education: Education{
			ProgramsOffered:           []string{},
			AcademicSupport:           []string{},
			ExtracurricularActivities: []string{},
		},
		Events: []string{},
		Campus: Campus{
			Facilities: []string{},
		},
		StudentLife: StudentLife{
			SupportServices: []string{},
		},
		Employment: Employment{
			OpenPositions: []string{},
		},
		Staff: Staff{
			StaffList:    []StaffMember{},
			BoardMembers: []StaffMember{},
		},
	}
}
