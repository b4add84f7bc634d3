// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// commonSkills seeds the dictionary alongside catalog skill names.
var commonSkills = []string{
	"python", "javascript", "java", "c++", "html", "css", "sql", "react",
	"angular", "vue", "node.js", "django", "flask", "spring", "docker",
	"kubernetes", "aws", "azure", "git", "machine learning", "data analysis",
	"project management", "communication", "leadership", "teamwork",
	"problem solving", "critical thinking", "creativity", "adaptability",
}

// categoryTerms maps a category to the terms recognized for it.
// Multi-word terms match across any run of whitespace.
var categoryTerms = []struct {
	category string
	terms    []string
}{
	{"technical", []string{
		"python", "javascript", "java", "c++", "c#", "ruby", "go", "rust",
		"swift", "kotlin", "scala", "r", "matlab", "php",
	}},
	{"technical", []string{
		"react", "angular", "vue", "django", "flask", "spring", "express",
		"laravel", "rails", "tensorflow", "pytorch", "scikit-learn",
	}},
	{"technical", []string{
		"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
		"cassandra", "oracle",
	}},
	{"technical", []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "terraform",
		"ansible", "git", "gitlab", "github",
	}},
	{"soft", []string{
		"leadership", "communication", "teamwork", "project management",
		"problem solving", "critical thinking", "creativity", "adaptability",
		"time management",
	}},
}

// contextGroups suggests related skills when any trigger word appears.
var contextGroups = []struct {
	triggers []string
	suggest  []string
}{
	{
		[]string{"data", "analytics", "science", "machine learning"},
		[]string{"python", "sql", "statistics", "machine learning", "data visualization"},
	},
	{
		[]string{"web", "frontend", "ui", "ux"},
		[]string{"html", "css", "javascript", "react", "user experience design"},
	},
	{
		[]string{"backend", "server", "api"},
		[]string{"python", "java", "sql", "rest api", "database design"},
	},
	{
		[]string{"mobile", "app", "ios", "android"},
		[]string{"swift", "kotlin", "react native", "mobile development"},
	},
	{
		[]string{"cloud", "devops", "deployment"},
		[]string{"aws", "docker", "kubernetes", "ci/cd", "linux"},
	},
	{
		[]string{"management", "team", "project"},
		[]string{"project management", "leadership", "communication", "agile"},
	},
}

// interestKeywords marks an extracted term as interest-like when any of
// them occurs within it.
var interestKeywords = []string{
	"design", "art", "music", "business", "science", "research",
	"education", "health", "finance", "marketing", "writing",
	"communication", "environment", "sustainability", "innovation",
}

// Autocomplete vocabularies for Suggest.
var (
	skillSuggestions = []string{
		"Python", "JavaScript", "Java", "C++", "C#", "Ruby", "Go", "Rust", "Swift", "Kotlin",
		"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express.js", "REST API",
		"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
		"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Jenkins", "Git",
		"Machine Learning", "Data Analysis", "Statistics", "TensorFlow", "PyTorch", "Pandas",
		"Leadership", "Communication", "Project Management", "Teamwork", "Problem Solving",
		"Critical Thinking", "Creativity", "Adaptability", "Time Management",
		"UI/UX Design", "Graphic Design", "Photoshop", "Figma", "User Research",
		"Business Analysis", "Strategic Planning", "Market Research", "Sales", "Marketing",
	}

	interestSuggestions = []string{
		"Technology", "Business", "Arts", "Science", "Health", "Education",
		"Environment", "Finance", "Marketing", "Design", "Music", "Sports",
		"Travel", "Writing", "Research", "Innovation", "Sustainability",
		"Social Impact", "Gaming", "Photography", "Cooking", "Fashion",
	}

	locationSuggestions = []string{
		"United States", "United Kingdom", "Canada", "Australia", "Germany",
		"France", "Netherlands", "Sweden", "Singapore", "Japan", "Online",
		"New York", "London", "Toronto", "Sydney", "Berlin", "Amsterdam",
		"Stockholm", "Tokyo", "Remote", "Hybrid",
	}
)
