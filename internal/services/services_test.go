package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/queue"
	"github.com/justsurfingit/talentbridge/internal/session"
)

const validInsights = `{
  "active_jobs": 1200, "applications_today": 340, "companies_hiring": 87,
  "average_salary": 95000, "salary_growth_percent": 4.5, "trending_change_percent": 12,
  "skills_in_demand": [{"skill": "Go", "growth": "+9%", "demand": "91%"}, {"skill": "Kubernetes", "growth": "+7%", "demand": "84%"}]
}`

// fakeModel answers like a langchaingo model, failing for the listed model names.
type fakeModel struct {
	mu      sync.Mutex
	answer  string
	failFor map[string]bool
	tried   []string
	calls   atomic.Int32
}

func (m *fakeModel) GenerateContent(_ context.Context, _ []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls.Add(1)
	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	m.mu.Lock()
	m.tried = append(m.tried, opts.Model)
	m.mu.Unlock()
	if m.failFor[opts.Model] {
		return nil, errors.New("model not found")
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.answer}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type backend struct {
	jobs     []gin.H
	apps     []gin.H
	uploads  atomic.Int32
	uploadOK bool
}

func (b *backend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.GET("/recruiter/jobs/", func(c *gin.Context) { c.JSON(http.StatusOK, b.jobs) })
	api.GET("/recruiter/applications/", func(c *gin.Context) {
		if c.Query("job") != "" {
			c.JSON(http.StatusOK, []gin.H{{"id": 9, "status": "applied", "candidate_name": "Ada"}})
			return
		}
		c.JSON(http.StatusOK, b.apps)
	})
	api.GET("/recruiter/job_count/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"jobs_posted": 3, "total_applicants": 40, "interviewed": 25, "offered": 1})
	})
	api.GET("/recruiter/insights/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"avg_applications_per_job": 13.3, "response_rate": 60, "job_views": 410})
	})
	api.GET("/candidate/apply_count/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_applied": 30, "interviewed": 2, "profile_views": 11, "profile_completion": 80})
	})
	api.GET("/candidate/badges/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total_applied": gin.H{"value": 3, "level": "Bronze", "tasks_to_next": 2},
			"interviewed":   gin.H{"value": 0, "level": "None", "tasks_to_next": 0},
		})
	})
	api.GET("/add/skill/", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "skill_name": "Golang"}, {"id": 2, "skill_name": "SQL"}})
	})
	api.GET("/currentuser/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": 1, "user_name": "ada"}) })
	api.GET("/about/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"description": "hi"}) })
	api.GET("/add/education/", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "school_name": "MIT", "start_year": 2019}})
	})
	api.GET("/add/experience/", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{}) })
	api.GET("/add/project/", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.GET("/resume/", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{{"id": 1, "role": "Backend", "ats_score": 81}}) })
	api.POST("/resume/", func(c *gin.Context) {
		b.uploads.Add(1)
		if _, err := c.FormFile("file"); err != nil || !b.uploadOK {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Resume parsing failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": 2, "role": "Backend", "ats_score": "77", "processed": true})
	})
	return r
}

func newAPI(t *testing.T, b *backend) *client.Client {
	t.Helper()
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.SaveLogin(context.Background(), models.Candidate,
		session.Tokens{Access: "a", Refresh: "r"}, json.RawMessage(`{}`)))
	c, err := client.New(srv.URL+"/api/", sess)
	require.NoError(t, err)
	return c
}

func TestCleanJSONResponse(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":                `{"a":1}`,
		"```\n{\"a\":1}```":                      `{"a":1}`,
		"Sure! Here it is: {\"a\":{\"b\":2}} ok": `{"a":{"b":2}}`,
		"no json here":                           "no json here",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanJSONResponse(in), in)
	}
}

func TestGeminiGeneratorFallsBackThroughModels(t *testing.T) {
	m := &fakeModel{answer: "ok", failFor: map[string]bool{"gemini-2.5-flash": true}}
	g := NewGeminiGenerator(m, "")

	out, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-flash-latest"}, m.tried)
}

func TestGeminiGeneratorPreferredModelFirst(t *testing.T) {
	m := &fakeModel{failFor: map[string]bool{
		"gemini-exp": true, "gemini-2.5-flash": true, "gemini-flash-latest": true, "gemini-2.0-flash": true,
	}}
	_, err := NewGeminiGenerator(m, "gemini-exp").Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, []string{"gemini-exp", "gemini-2.5-flash", "gemini-flash-latest", "gemini-2.0-flash"}, m.tried)
}

func TestOpenAIGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: validInsights},
			}},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	out, err := NewOpenAIGenerator(cfg, "").Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, validInsights, out)
}

func newInsights(t *testing.T, m *fakeModel) *InsightService {
	t.Helper()
	s, err := NewInsightService(&LLMService{Generator: NewGeminiGenerator(m, "")}, time.Hour)
	require.NoError(t, err)
	return s
}

func TestInsightsCachedUntilTTL(t *testing.T) {
	m := &fakeModel{answer: "```json\n" + validInsights + "\n```"}
	s := newInsights(t, m)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	mi := s.Get(context.Background())
	require.NotNil(t, mi)
	assert.Equal(t, 1200.0, mi.ActiveJobs)
	assert.Len(t, mi.SkillsInDemand, 2)
	assert.Equal(t, now, mi.GeneratedAt)

	s.Get(context.Background())
	assert.EqualValues(t, 1, m.calls.Load())

	now = now.Add(2 * time.Hour)
	s.Get(context.Background())
	assert.EqualValues(t, 2, m.calls.Load())
}

func TestInsightsInvalidOutputIsNil(t *testing.T) {
	for name, answer := range map[string]string{
		"prose":          "I cannot help with that",
		"missing fields": `{"active_jobs": 3}`,
		"wrong type":     `{"active_jobs":"many","applications_today":1,"companies_hiring":1,"average_salary":1,"salary_growth_percent":1,"trending_change_percent":1,"skills_in_demand":[{"skill":"Go","growth":"+1%","demand":"5%"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newInsights(t, &fakeModel{answer: answer})
			assert.Nil(t, s.Get(context.Background()))
			_, err := s.Refresh(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestInsightsDisabled(t *testing.T) {
	s, err := NewInsightService(&LLMService{}, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, s.Get(context.Background()))
	_, err = s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrInsightsDisabled)
	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
}

func TestInsightsCronSchedule(t *testing.T) {
	s := newInsights(t, &fakeModel{answer: validInsights})
	assert.Error(t, s.Start("not a schedule"))
	require.NoError(t, s.Start("@every 1h"))
	s.Stop()
}

func TestGoalMath(t *testing.T) {
	assert.Equal(t, Goal{Current: 30, Goal: 25, Progress: 100}, candidateGoal(30, 25))
	assert.InDelta(t, 28.571, candidateGoal(2, 7).Progress, 0.001)
	assert.Equal(t, 28.6, recruiterGoal(2, 7).Progress)
	assert.Equal(t, 30.0, recruiterGoal(3, 10).Progress)
}

func TestMilestoneProgress(t *testing.T) {
	assert.Equal(t, 60, MilestoneProgress(models.Badge{Value: 3, TasksToNext: 2}))
	assert.Equal(t, 0, MilestoneProgress(models.Badge{Value: 0, TasksToNext: 0}))
	assert.Equal(t, 100, MilestoneProgress(models.Badge{Value: 4, TasksToNext: 0}))
	assert.Equal(t, 67, MilestoneProgress(models.Badge{Value: 2, TasksToNext: 1}))
}

func TestCandidateDashboard(t *testing.T) {
	b := &backend{apps: []gin.H{
		{"id": 1, "status": "applied", "applied_at": "2026-01-01T10:00:00Z"},
		{"id": 2, "status": "interviewed", "applied_at": "2026-03-01T10:00:00Z"},
		{"id": 3, "status": "rejected"},
		{"id": 4, "status": "applied", "applied_at": "2026-02-01T10:00:00Z"},
		{"id": 5, "status": "applied", "applied_at": "2026-02-02T10:00:00Z"},
		{"id": 6, "status": "offered", "applied_at": "2025-12-01T10:00:00Z"},
	}}
	d, err := NewDashboardService(newAPI(t, b)).Candidate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100.0, d.Applied.Progress)
	assert.Equal(t, 7.0, d.Interviewed.Goal)
	require.Len(t, d.Milestones, 2)
	assert.Equal(t, "interviewed", d.Milestones[0].Name)
	assert.Equal(t, 0, d.Milestones[0].Progress)
	assert.Equal(t, 60, d.Milestones[1].Progress)
	assert.Equal(t, "Keep applying! Each job is a new opportunity.", d.Milestones[1].Message)

	ids := []int{}
	for _, a := range d.RecentApplications {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{2, 5, 4, 1, 6}, ids)
}

func TestRecruiterDashboard(t *testing.T) {
	b := &backend{jobs: []gin.H{
		{"id": 1, "title": "a", "created_at": "2026-01-01T00:00:00Z"},
		{"id": 2, "title": "b", "created_at": "2026-05-01T00:00:00Z"},
		{"id": 3, "title": "c", "created_at": "2026-03-01T00:00:00Z"},
		{"id": 4, "title": "d", "created_at": "2026-04-01T00:00:00Z"},
		{"id": 5, "title": "e", "created_at": "2025-04-01T00:00:00Z"},
	}}
	d, err := NewDashboardService(newAPI(t, b)).Recruiter(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30.0, d.JobsPosted.Progress)
	assert.Equal(t, 100.0, d.Interviewed.Progress)
	assert.Equal(t, 20.0, d.Offered.Progress)
	require.Len(t, d.RecentJobs, 4)
	assert.Equal(t, 2, d.RecentJobs[0].ID)
	assert.Equal(t, 1, d.RecentJobs[3].ID)
	assert.Equal(t, 410, d.Insights.JobViews)
}

func TestHomeFeedWithoutInsights(t *testing.T) {
	b := &backend{jobs: []gin.H{{"id": 1, "title": "Go"}}}
	insights, err := NewInsightService(&LLMService{}, time.Hour)
	require.NoError(t, err)

	feed, err := NewJobService(newAPI(t, b), insights).Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.LatestJobs, 1)
	assert.Nil(t, feed.Insights)
}

func TestReviewApplications(t *testing.T) {
	b := &backend{jobs: []gin.H{{"id": 3, "title": "Go"}}}
	svc := NewJobService(newAPI(t, b), nil)

	r, err := svc.ReviewApplications(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, r.Applications)

	r, err = svc.ReviewApplications(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, r.SelectedJob)
	require.Len(t, r.Applications, 1)
	assert.Equal(t, "Ada", r.Applications[0].CandidateName)
}

func TestCompareSkills(t *testing.T) {
	g := CompareSkills([]string{"Golang", " react native "}, []Demand{
		{Name: "Go", Demand: 91}, {Name: "React", Demand: 75}, {Name: "Rust", Demand: 60},
	})
	assert.Equal(t, []string{"Go", "React"}, g.Matched)
	assert.Equal(t, []Demand{{Name: "Rust", Demand: 60}}, g.Gaps)
}

func TestCompareSkillsNeedsWholeWords(t *testing.T) {
	for _, skill := range []string{"Go", "C", "R", "Py", "act"} {
		g := CompareSkills([]string{skill}, fallbackTrending)
		assert.Empty(t, g.Matched, skill)
		assert.Len(t, g.Gaps, len(fallbackTrending), skill)
	}

	g := CompareSkills([]string{"python", "Data Analysis (Pandas)", "ML"}, fallbackTrending)
	assert.Equal(t, []string{"Python", "AI/ML", "Data Analysis"}, g.Matched)
}

func TestCareerGuideUsesInsights(t *testing.T) {
	api := newAPI(t, &backend{})

	svc := NewCareerService(api, newInsights(t, &fakeModel{answer: validInsights}))
	g, err := svc.Guide(context.Background(), models.Candidate)
	require.NoError(t, err)
	assert.True(t, g.Generated)
	assert.Equal(t, []string{"Golang", "SQL"}, g.Skills)
	assert.Equal(t, []string{"Go"}, g.Matched)
	assert.Equal(t, []Demand{{Name: "Kubernetes", Demand: 84}}, g.Gaps)
	assert.Len(t, g.Tips, 5)

	disabled, err := NewInsightService(&LLMService{}, time.Hour)
	require.NoError(t, err)
	g, err = NewCareerService(api, disabled).Guide(context.Background(), models.Recruiter)
	require.NoError(t, err)
	assert.False(t, g.Generated)
	assert.Empty(t, g.Skills)
	assert.Len(t, g.Gaps, len(fallbackTrending))
}

func TestCandidateProfileLoadsAllSections(t *testing.T) {
	p, err := NewProfileService(newAPI(t, &backend{})).Candidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", p.User.UserName)
	assert.Equal(t, "hi", p.About.Description)
	require.Len(t, p.Education, 1)
	assert.Equal(t, models.FlexString("2019"), p.Education[0].StartYear)
	assert.NotNil(t, p.Projects)
	assert.Len(t, p.Skills, 2)
}

var pdf = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestValidateResume(t *testing.T) {
	assert.NoError(t, ValidateResume(pdf))
	assert.ErrorIs(t, ValidateResume(nil), ErrEmptyFile)
	assert.ErrorIs(t, ValidateResume([]byte("hello, plain text")), ErrNotPDF)

	big := make([]byte, MaxResumeSize+1)
	copy(big, pdf)
	assert.ErrorIs(t, ValidateResume(big), ErrFileTooLarge)
}

func TestResumePipeline(t *testing.T) {
	b := &backend{uploadOK: true}
	q := queue.NewMemoryQueue(4)
	svc := NewResumeService(newAPI(t, b), q)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	st, err := svc.Submit(ctx, "../../cv.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", st.FileName)

	assert.Eventually(t, func() bool {
		cur, err := svc.Status(st.ID)
		return err == nil && cur.State == UploadCompleted
	}, 2*time.Second, 10*time.Millisecond)

	cur, err := svc.Status(st.ID)
	require.NoError(t, err)
	require.NotNil(t, cur.Result)
	assert.Equal(t, models.FlexString("77"), cur.Result.ATSScore)

	page, err := svc.Page(ctx)
	require.NoError(t, err)
	assert.Len(t, page.Analyses, 1)
	assert.Len(t, page.Uploads, 1)

	cancel()
	assert.NoError(t, <-done)
}

func TestResumeUploadFailureRecorded(t *testing.T) {
	b := &backend{uploadOK: false}
	svc := NewResumeService(newAPI(t, b), queue.NewMemoryQueue(1))

	st, err := svc.Submit(context.Background(), "cv.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, UploadQueued, st.State)

	svc.Process(context.Background(), queue.UploadTask{ID: st.ID, FileName: "cv.pdf", Data: pdf, UserType: models.Candidate})
	cur, err := svc.Status(st.ID)
	require.NoError(t, err)
	assert.Equal(t, UploadFailed, cur.State)
	assert.Contains(t, cur.Error, "Resume parsing failed")

	_, err = svc.Status("nope")
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestResumeNotSentAfterUserSwitch(t *testing.T) {
	b := &backend{uploadOK: true}
	api := newAPI(t, b)
	q := queue.NewMemoryQueue(1)
	svc := NewResumeService(api, q)
	ctx := context.Background()

	st, err := svc.Submit(ctx, "cv.pdf", pdf)
	require.NoError(t, err)

	require.NoError(t, api.Session().Logout(ctx))
	require.NoError(t, api.Session().SaveLogin(ctx, models.Recruiter,
		session.Tokens{Access: "ra", Refresh: "rr"}, json.RawMessage(`{}`)))

	svc.Process(ctx, queue.UploadTask{ID: st.ID, FileName: "cv.pdf", Data: pdf, UserType: models.Candidate})

	cur, err := svc.Status(st.ID)
	require.NoError(t, err)
	assert.Equal(t, UploadFailed, cur.State)
	assert.Equal(t, ErrSessionChanged.Error(), cur.Error)
	assert.Zero(t, b.uploads.Load())
}

func TestResumeSubmitNeedsSession(t *testing.T) {
	api := newAPI(t, &backend{})
	require.NoError(t, api.Session().Logout(context.Background()))

	_, err := NewResumeService(api, queue.NewMemoryQueue(1)).Submit(context.Background(), "cv.pdf", pdf)
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestResumeSubmitQueueFull(t *testing.T) {
	svc := NewResumeService(newAPI(t, &backend{}), queue.NewMemoryQueue(1))
	_, err := svc.Submit(context.Background(), "a.pdf", pdf)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "b.pdf", pdf)
	assert.ErrorIs(t, err, queue.ErrQueueFull)

	states := map[UploadState]int{}
	for _, u := range svc.Uploads() {
		states[u.State]++
	}
	assert.Equal(t, map[UploadState]int{UploadQueued: 1, UploadFailed: 1}, states)
}
