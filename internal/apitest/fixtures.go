package apitest

import "github.com/kalambet/careernav/internal/api"

// Fixtures is the data a Server answers with.
type Fixtures struct {
	User        api.User
	Password    string
	Questions   []api.Question
	Results     api.Results
	Courses     []api.Course
	Jobs        []api.Job
	Leaderboard []api.LeaderboardEntry
	// ChatReply builds the assistant response. Nil echoes the message.
	ChatReply func(message string) string
	// Token, when set, is required as the bearer token on every route except login/register.
	Token string
}

// DefaultFixtures mirrors the seed data of the reference API deployment.
func DefaultFixtures() Fixtures {
	return Fixtures{
		User: api.User{
			ID:               1,
			Email:            "ada@example.com",
			FullName:         "Ada Lovelace",
			LearningStyle:    "Visual",
			SkillLevel:       "Intermediate",
			CareerGoals:      "Become a backend engineer",
			Points:           350,
			Badges:           []string{"First Assessment"},
			CompletedCourses: 2,
			Skills: []api.Skill{
				{Name: "Python", Level: 3},
				{Name: "SQL", Level: 2},
			},
		},
		Password: "secret",
		Questions: []api.Question{
			{ID: 1, Question: "How do you prefer to learn new concepts?", Options: []api.Option{
				{Text: "Reading detailed explanations and documentation", Style: "Visual", Weight: 3},
				{Text: "Listening to lectures and discussions", Style: "Auditory", Weight: 3},
				{Text: "Hands-on practice and experimentation", Style: "Kinesthetic", Weight: 3},
				{Text: "Watching video tutorials", Style: "Visual", Weight: 2},
			}},
			{ID: 2, Question: "When solving problems, you typically:", Options: []api.Option{
				{Text: "Draw diagrams or flowcharts", Style: "Visual", Weight: 3},
				{Text: "Talk through the problem aloud", Style: "Auditory", Weight: 3},
				{Text: "Jump in and try different solutions", Style: "Kinesthetic", Weight: 3},
				{Text: "Think silently and methodically", Style: "Visual", Weight: 2},
			}},
			{ID: 3, Question: "Your programming experience level is:", Options: []api.Option{
				{Text: "Complete beginner", Level: "Beginner", Weight: 1},
				{Text: "Some basic knowledge", Level: "Beginner", Weight: 2},
				{Text: "Intermediate skills", Level: "Intermediate", Weight: 3},
				{Text: "Advanced programmer", Level: "Advanced", Weight: 4},
			}},
		},
		Results: api.Results{
			LearningStyle: "Auditory",
			SkillLevel:    "Intermediate",
			Recommendations: api.Recommendations{
				AIGenerated:         false,
				LearningStyle:       "Auditory",
				RecommendedApproach: "Emphasize lectures, discussions, podcasts, and verbal explanations",
				Courses: []api.RecommendedCourse{{
					Title:       "Intermediate Programming Track",
					Description: "Tailored for auditory learners at intermediate level",
					Difficulty:  "Intermediate",
					Duration:    "8 weeks",
					Skills:      []string{"Programming fundamentals", "Problem solving", "Best practices"},
				}},
			},
		},
		Courses: []api.Course{
			{ID: 1, Title: "Python Fundamentals", Description: "Learn Python programming from scratch", Difficulty: "Beginner", Category: "Programming", Duration: "4 weeks", SkillsTaught: []string{"Python basics", "Data types"}, Progress: 100},
			{ID: 2, Title: "Web Development with React", Description: "Build modern web applications", Difficulty: "Intermediate", Category: "Web Development", Duration: "6 weeks", SkillsTaught: []string{"React.js", "JavaScript"}, Progress: 40},
			{ID: 3, Title: "Machine Learning Basics", Description: "Introduction to ML concepts and algorithms", Difficulty: "Advanced", Category: "Data Science", Duration: "8 weeks", SkillsTaught: []string{"ML Algorithms", "Python"}},
			{ID: 4, Title: "SQL for Analysts", Description: "Query relational data", Difficulty: "Beginner", Category: "Data", Duration: "3 weeks", SkillsTaught: []string{"SQL"}},
		},
		Jobs: []api.Job{
			{ID: 1, Title: "Junior Python Developer", Company: "TechCorp Inc.", Requirements: "Python, Flask, Git, SQL", SalaryRange: "$50,000 - $70,000", Location: "Remote", JobType: "Full-time", MatchScore: 100},
			{ID: 3, Title: "Data Analyst Intern", Company: "DataDriven Co.", Requirements: "Python, Pandas, SQL, Statistics", SalaryRange: "$15 - $20/hour", Location: "San Francisco, CA", JobType: "Internship", MatchScore: 100},
			{ID: 2, Title: "React Frontend Developer", Company: "WebSolutions Ltd.", Requirements: "React.js, JavaScript, HTML/CSS, Git", SalaryRange: "$60,000 - $85,000", Location: "New York, NY", JobType: "Full-time", MatchScore: 0},
			{ID: 4, Title: "Backend Engineer", Company: "Cloudy", Requirements: "Go, SQL", Location: "Berlin", JobType: "Full-time", MatchScore: 50},
		},
		Leaderboard: []api.LeaderboardEntry{
			{Rank: 1, Name: "Grace Hopper", Points: 900, LearningStyle: "Kinesthetic"},
			{Rank: 2, Name: "Ada Lovelace", Points: 350, LearningStyle: "Visual"},
			{Rank: 3, Name: "Alan Turing", Points: 300, LearningStyle: "Visual"},
			{Rank: 4, Name: "Edsger Dijkstra", Points: 250, LearningStyle: "Auditory"},
			{Rank: 5, Name: "Barbara Liskov", Points: 200, LearningStyle: "Visual"},
			{Rank: 6, Name: "Ken Thompson", Points: 150, LearningStyle: "Kinesthetic"},
		},
	}
}
