package records

// CareerInterests lists the interests offered when adding a student.
var CareerInterests = []string{
	"Software Development",
	"Data Science",
	"Healthcare",
	"Business Administration",
	"Engineering",
	"Education",
	"Marketing",
	"Finance",
	"Design",
	"Law",
	"Psychology",
	"Social Work",
}

// Counselors lists the counselors sessions can be booked with.
var Counselors = []string{
	"Dr. Patricia Williams",
	"Prof. Mark Johnson",
	"Dr. Susan Lee",
	"Ms. Jennifer Brown",
	"Dr. Robert Martinez",
	"Ms. Angela Davis",
	"Dr. Thomas Wilson",
}

func strPtr(s string) *string { return &s }

// SeedStudents returns a fresh copy of the demo students.
func SeedStudents() []Student {
	return []Student{
		{ID: "1", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@email.com", CareerInterest: "Software Development", DateJoined: "2024-01-15", Phone: strPtr("+1 (555) 123-4567"), Address: strPtr("123 Main St, City, State"), Status: StatusActive},
		{ID: "2", FirstName: "Michael", LastName: "Chen", Email: "michael.chen@email.com", CareerInterest: "Data Science", DateJoined: "2024-01-20", Phone: strPtr("+1 (555) 234-5678"), Address: strPtr("456 Oak Ave, City, State"), Status: StatusActive},
		{ID: "3", FirstName: "Emily", LastName: "Davis", Email: "emily.davis@email.com", CareerInterest: "Healthcare", DateJoined: "2024-02-01", Phone: strPtr("+1 (555) 345-6789"), Address: strPtr("789 Pine St, City, State"), Status: StatusActive},
		{ID: "4", FirstName: "James", LastName: "Wilson", Email: "james.wilson@email.com", CareerInterest: "Business Administration", DateJoined: "2024-02-10", Phone: strPtr("+1 (555) 456-7890"), Address: strPtr("321 Elm St, City, State"), Status: StatusActive},
		{ID: "5", FirstName: "Maria", LastName: "Rodriguez", Email: "maria.rodriguez@email.com", CareerInterest: "Engineering", DateJoined: "2024-02-15", Phone: strPtr("+1 (555) 567-8901"), Address: strPtr("654 Maple Dr, City, State"), Status: StatusActive},
		{ID: "6", FirstName: "David", LastName: "Thompson", Email: "david.thompson@email.com", CareerInterest: "Education", DateJoined: "2024-01-05", Phone: strPtr("+1 (555) 678-9012"), Address: strPtr("987 Cedar Ln, City, State"), Status: StatusGraduated},
		{ID: "7", FirstName: "Lisa", LastName: "Anderson", Email: "lisa.anderson@email.com", CareerInterest: "Marketing", DateJoined: "2024-03-01", Phone: strPtr("+1 (555) 789-0123"), Address: strPtr("147 Birch Rd, City, State"), Status: StatusActive},
		{ID: "8", FirstName: "Robert", LastName: "Garcia", Email: "robert.garcia@email.com", CareerInterest: "Software Development", DateJoined: "2024-03-05", Phone: strPtr("+1 (555) 890-1234"), Address: strPtr("258 Willow St, City, State"), Status: StatusActive},
	}
}

// SeedSessions returns a fresh copy of the demo counseling sessions.
func SeedSessions() []CounselingSession {
	return []CounselingSession{
		{ID: "1", StudentID: "1", CounselorName: "Dr. Patricia Williams", SessionDate: "2024-03-15", Duration: 60, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Discussed career goals in software development. Student showed strong interest in full-stack development. Recommended JavaScript and React learning path."},
		{ID: "2", StudentID: "1", CounselorName: "Dr. Patricia Williams", SessionDate: "2024-04-01", Duration: 45, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Follow-up session. Student has made good progress with JavaScript fundamentals. Discussed internship opportunities."},
		{ID: "3", StudentID: "2", CounselorName: "Prof. Mark Johnson", SessionDate: "2024-03-20", Duration: 60, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Initial assessment for data science path. Student has strong mathematical background. Recommended Python and statistics courses."},
		{ID: "4", StudentID: "3", CounselorName: "Dr. Susan Lee", SessionDate: "2024-03-25", Duration: 50, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Career exploration in healthcare. Discussed various healthcare roles and education requirements."},
		{ID: "5", StudentID: "4", CounselorName: "Ms. Jennifer Brown", SessionDate: "2024-04-05", Duration: 55, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Business administration career planning. Discussed MBA programs and business internships."},
		{ID: "6", StudentID: "5", CounselorName: "Dr. Robert Martinez", SessionDate: "2024-04-08", Duration: 60, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Engineering career paths discussion. Student interested in mechanical engineering. Reviewed university programs."},
		{ID: "7", StudentID: "2", CounselorName: "Prof. Mark Johnson", SessionDate: "2024-04-12", Duration: 30, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Data science workshop attendance follow-up. Student completed first Python project successfully."},
		{ID: "8", StudentID: "7", CounselorName: "Ms. Jennifer Brown", SessionDate: "2024-04-15", Duration: 45, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Marketing career exploration. Discussed digital marketing trends and certification programs."},
		{ID: "9", StudentID: "8", CounselorName: "Dr. Patricia Williams", SessionDate: "2024-04-18", Duration: 60, Type: TypeIndividual, Status: SessionCompleted,
			Notes: "Software development career guidance. Student has previous experience with Python, exploring web development."},
		{ID: "10", StudentID: "1", CounselorName: "Dr. Patricia Williams", SessionDate: "2024-04-25", Duration: 60, Type: TypeIndividual, Status: SessionScheduled,
			Notes: "Upcoming session to review portfolio development and job application strategies."},
	}
}
