package model

// BilingualRecord is the merged English/Japanese view of one school,
// produced by folding card exports from both languages under a shared
// site key. Every logical field exists twice, once per language slot.
//
// The flat field layout (education_*, admissions_*, and so on) mirrors
// the nested StructuredData schema but keeps one level so that
// translation tooling downstream can address each language slot by a
// single key.
type BilingualRecord struct {
	// SchoolID is assigned sequentially from 1 in first-seen order.
	SchoolID int `json:"school_id"`

	// SiteID is the site key the record was grouped under, derived from
	// the trailing path segment of the school's URL.
	SiteID string `json:"site_id"`

	NameEN string `json:"name_en"`
	NameJP string `json:"name_jp"`

	ShortDescriptionEN string `json:"short_description_en"`
	ShortDescriptionJP string `json:"short_description_jp"`
	DescriptionEN      string `json:"description_en"`
	DescriptionJP      string `json:"description_jp"`

	LocationEN  string `json:"location_en"`
	LocationJP  string `json:"location_jp"`
	CountryEN   string `json:"country_en"`
	CountryJP   string `json:"country_jp"`
	RegionEN    string `json:"region_en"`
	RegionJP    string `json:"region_jp"`
	GeographyEN string `json:"geography_en"`
	GeographyJP string `json:"geography_jp"`

	PhoneEN   string `json:"phone_en"`
	PhoneJP   string `json:"phone_jp"`
	EmailEN   string `json:"email_en"`
	EmailJP   string `json:"email_jp"`
	AddressEN string `json:"address_en"`
	AddressJP string `json:"address_jp"`

	CurriculumEN string `json:"curriculum_en"`
	CurriculumJP string `json:"curriculum_jp"`
	LanguageEN   string `json:"language_en"`
	LanguageJP   string `json:"language_jp"`
	AgesEN       string `json:"ages_en"`
	AgesJP       string `json:"ages_jp"`
	FeesEN       string `json:"fees_en"`
	FeesJP       string `json:"fees_jp"`

	URLEN string `json:"url_en"`
	URLJP string `json:"url_jp"`

	LogoID  string `json:"logo_id"`
	ImageID string `json:"image_id"`

	AffiliationsEN  []string `json:"affiliations_en"`
	AffiliationsJP  []string `json:"affiliations_jp"`
	AccreditationEN []string `json:"accreditation_en"`
	AccreditationJP []string `json:"accreditation_jp"`

	EducationProgramsOfferedEN           []string `json:"education_programs_offered_en"`
	EducationProgramsOfferedJP           []string `json:"education_programs_offered_jp"`
	EducationCurriculumEN                string   `json:"education_curriculum_en"`
	EducationCurriculumJP                string   `json:"education_curriculum_jp"`
	EducationAcademicSupportEN           []string `json:"education_academic_support_en"`
	EducationAcademicSupportJP           []string `json:"education_academic_support_jp"`
	EducationExtracurricularActivitiesEN []string `json:"education_extracurricular_activities_en"`
	EducationExtracurricularActivitiesJP []string `json:"education_extracurricular_activities_jp"`

	AdmissionsAcceptancePolicyEN      string `json:"admissions_acceptance_policy_en"`
	AdmissionsAcceptancePolicyJP      string `json:"admissions_acceptance_policy_jp"`
	AdmissionsApplicationGuidelinesEN string `json:"admissions_application_guidelines_en"`
	AdmissionsApplicationGuidelinesJP string `json:"admissions_application_guidelines_jp"`
	AdmissionsAgeRequirementsEN       string `json:"admissions_age_requirements_en"`
	AdmissionsAgeRequirementsJP       string `json:"admissions_age_requirements_jp"`
	AdmissionsFeesEN                  string `json:"admissions_fees_en"`
	AdmissionsFeesJP                  string `json:"admissions_fees_jp"`

	EventsEN []string `json:"events_en"`
	EventsJP []string `json:"events_jp"`

	CampusFacilitiesEN  []string `json:"campus_facilities_en"`
	CampusFacilitiesJP  []string `json:"campus_facilities_jp"`
	CampusVirtualTourEN string   `json:"campus_virtual_tour_en"`
	CampusVirtualTourJP string   `json:"campus_virtual_tour_jp"`

	StudentLifeCounselingEN      string   `json:"student_life_counseling_en"`
	StudentLifeCounselingJP      string   `json:"student_life_counseling_jp"`
	StudentLifeSupportServicesEN []string `json:"student_life_support_services_en"`
	StudentLifeSupportServicesJP []string `json:"student_life_support_services_jp"`
	StudentLifeLibraryEN         string   `json:"student_life_library_en"`
	StudentLifeLibraryJP         string   `json:"student_life_library_jp"`
	StudentLifeCalendarEN        string   `json:"student_life_calendar_en"`
	StudentLifeCalendarJP        string   `json:"student_life_calendar_jp"`
	StudentLifeTourEN            string   `json:"student_life_tour_en"`
	StudentLifeTourJP            string   `json:"student_life_tour_jp"`

	EmploymentOpenPositionsEN      []string `json:"employment_open_positions_en"`
	EmploymentOpenPositionsJP      []string `json:"employment_open_positions_jp"`
	EmploymentApplicationProcessEN string   `json:"employment_application_process_en"`
	EmploymentApplicationProcessJP string   `json:"employment_application_process_jp"`

	PoliciesPrivacyPolicyEN string `json:"policies_privacy_policy_en"`
	PoliciesPrivacyPolicyJP string `json:"policies_privacy_policy_jp"`
	PoliciesTermsOfUseEN    string `json:"policies_terms_of_use_en"`
	PoliciesTermsOfUseJP    string `json:"policies_terms_of_use_jp"`

	StaffStaffListEN    []StaffMember `json:"staff_staff_list_en"`
	StaffStaffListJP    []StaffMember `json:"staff_staff_list_jp"`
	StaffBoardMembersEN []StaffMember `json:"staff_board_members_en"`
	StaffBoardMembersJP []StaffMember `json:"staff_board_members_jp"`

	// StructuredData carries the detail-page sections verbatim from the
	// raw card's details field, without language splitting.
	StructuredData DetailSections `json:"structured_data"`
}

// NewBilingualRecord returns a record for the given site key and
// sequential school ID with every field at its empty default. Slice and
// map fields are initialized non-nil so they marshal as empty JSON
// containers rather than null.
func NewBilingualRecord(schoolID int, siteID string) *BilingualRecord {
	return &BilingualRecord{
		SchoolID: schoolID,
		SiteID:   siteID,

		AffiliationsEN:  []string{},
		AffiliationsJP:  []string{},
		AccreditationEN: []string{},
		AccreditationJP: []string{},

		EducationProgramsOfferedEN:           []string{},
		EducationProgramsOfferedJP:           []string{},
		EducationAcademicSupportEN:           []string{},
		EducationAcademicSupportJP:           []string{},
		EducationExtracurricularActivitiesEN: []string{},
		EducationExtracurricularActivitiesJP: []string{},

		EventsEN: []string{},
		EventsJP: []string{},

		CampusFacilitiesEN: []string{},
		CampusFacilitiesJP: []string{},

		StudentLifeSupportServicesEN: []string{},
		StudentLifeSupportServicesJP: []string{},

		EmploymentOpenPositionsEN: []string{},
		EmploymentOpenPositionsJP: []string{},

		StaffStaffListEN:    []StaffMember{},
		StaffStaffListJP:    []StaffMember{},
		StaffBoardMembersEN: []StaffMember{},
		StaffBoardMembersJP: []StaffMember{},

		StructuredData: DetailSections{},
	}
}
