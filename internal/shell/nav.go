package shell

// NavItem sidebar entry
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Sidebar shown to authenticated sessions
var Sidebar = []NavItem{
	{"/dashboard", "Dashboard"},
	{"/study-center", "Study Center"},
	{"/roadmaps", "Roadmaps"},
	{"/aptitude", "Aptitude Tests"},
	{"/interview", "Mock Interview"},
	{"/video-interview", "Video Interview"},
	{"/voice-interview", "Voice Interview"},
	{"/resume", "Resume Analyzer"},
	{"/courses", "Courses"},
	{"/settings", "Settings"},
}

// StudyCard study center destination
type StudyCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Stats       string `json:"stats"`
}

// StudyCenter cards grouped by tab
type StudyCenter struct {
	Practice []StudyCard `json:"practice"`
	Learn    []StudyCard `json:"learn"`
}

// StudySections study center content. /learn/system-design has no page yet and resolves to the dashboard.
var StudySections = StudyCenter{
	Practice: []StudyCard{
		{"coding-practice", "Coding Practice", "Sharpen your coding skills with AI-generated problems and real-time validation.", "/practice/coding", "50+ Problems"},
		{"aptitude-practice", "Aptitude Practice", "Test your logical, quantitative, and verbal skills with adaptive timed tests.", "/aptitude", "3 Categories"},
		{"sql-practice", "SQL Practice", "Master database queries with AI-generated SQL challenges and validation.", "/practice/sql", "Intermediate"},
		{"bug-fixing", "Bug Fixing", "Find and fix complex bugs in existing codebases to sharpen debugging skills.", "/practice/debugging", "Advanced"},
		{"flashcards", "Quick Flashcards", "Rapid-fire questions to master definitions, shortcuts, and syntax.", "/practice/flashcards", "Fast Learning"},
	},
	Learn: []StudyCard{
		{"coding-learn", "Coding Courses", "Structured learning paths for Python, DSA, Web Dev, and more.", "/courses", "10+ Courses"},
		{"aptitude-learn", "Aptitude Tutorials", "Master shortcuts and concepts with AI-powered interactive tutorials.", "/learn/aptitude", "Comprehensive Lessons"},
		{"system-design", "System Design", "Understand high-level architecture, scalability, and distributed systems.", "/learn/system-design", "Intermediate"},
		{"roadmaps-hub", "Career Roadmaps", "Step-by-step guides for 20+ careers in Tech, Design, and Marketing.", "/roadmaps", "20 Roadmaps"},
	},
}
