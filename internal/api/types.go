package api

// User is the profile record returned by GET /user/profile and by the auth endpoints.
type User struct {
	ID               int      `json:"id"`
	Email            string   `json:"email"`
	FullName         string   `json:"full_name"`
	LearningStyle    string   `json:"learning_style"`
	SkillLevel       string   `json:"skill_level"`
	CareerGoals      string   `json:"career_goals"`
	Points           int      `json:"points"`
	Badges           []string `json:"badges"`
	CompletedCourses int      `json:"completed_courses"`
	CurrentStreak    int      `json:"current_streak"`
	Skills           []Skill  `json:"skills"`
}

// Skill is a named proficiency on a 0-5 scale.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Option is one selectable answer. Exactly one of Style, Level or Category is
// usually set, depending on what the question measures.
type Option struct {
	Text     string `json:"text"`
	Style    string `json:"style,omitempty"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
	Weight   int    `json:"weight"`
}

type Answer struct {
	QuestionID     int `json:"question_id"`
	SelectedOption int `json:"selected_option"`
}

type Results struct {
	LearningStyle       string          `json:"learning_style"`
	SkillLevel          string          `json:"skill_level"`
	RecommendedApproach string          `json:"recommended_approach"`
	Recommendations     Recommendations `json:"recommendations"`
}

// Approach returns the recommended learning approach. Older API versions only
// report it inside the recommendations block.
func (r Results) Approach() string {
	if r.RecommendedApproach != "" {
		return r.RecommendedApproach
	}
	return r.Recommendations.RecommendedApproach
}

type Recommendations struct {
	AIGenerated         bool                `json:"ai_generated"`
	LearningStyle       string              `json:"learning_style"`
	RecommendedApproach string              `json:"recommended_approach"`
	Courses             []RecommendedCourse `json:"courses"`
}

type RecommendedCourse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills"`
}

type Course struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Difficulty   string   `json:"difficulty"`
	Category     string   `json:"category"`
	Duration     string   `json:"duration"`
	SkillsTaught []string `json:"skills_taught"`
	Progress     float64  `json:"progress"`
}

type Job struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Description  string  `json:"description"`
	Requirements string  `json:"requirements"`
	SalaryRange  string  `json:"salary_range"`
	Location     string  `json:"location"`
	JobType      string  `json:"job_type"`
	MatchScore   float64 `json:"match_score"`
	PostedAt     string  `json:"posted_at"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	LearningStyle string `json:"learning_style"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
