package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
)

type Tip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type Demand struct {
	Name   string `json:"name"`
	Demand int    `json:"demand"`
}

type CareerGuide struct {
	Skills    []string `json:"skills"`
	Trending  []Demand `json:"trending_skills"`
	Matched   []string `json:"matched_skills"`
	Gaps      []Demand `json:"skill_gaps"`
	Roles     []Demand `json:"job_roles"`
	Tips      []Tip    `json:"tips"`
	Generated bool     `json:"generated"`
}

var careerTips = []Tip{
	{Title: "Optimize your Resume", Description: "Highlight achievements concisely.", Category: "Resume"},
	{Title: "Practice Coding Interviews", Description: "Use LeetCode or HackerRank.", Category: "Interview"},
	{Title: "Learn Trending Skills", Description: "Focus on Python, React, AI/ML.", Category: "Skill Development"},
	{Title: "Build a Portfolio", Description: "Showcase your projects on GitHub.", Category: "Skill Development"},
	{Title: "Network Professionally", Description: "Connect with peers on LinkedIn.", Category: "Interview"},
}

var fallbackTrending = []Demand{
	{Name: "Python", Demand: 90},
	{Name: "React", Demand: 75},
	{Name: "Django", Demand: 65},
	{Name: "AI/ML", Demand: 80},
	{Name: "Data Analysis", Demand: 70},
}

var jobRoleDemand = []Demand{
	{Name: "Frontend Developer", Demand: 80},
	{Name: "Backend Developer", Demand: 70},
	{Name: "Data Scientist", Demand: 85},
	{Name: "AI/ML Engineer", Demand: 75},
	{Name: "Fullstack Developer", Demand: 90},
}

type CareerService struct {
	API      *client.Client
	Insights *InsightService
}

func NewCareerService(api *client.Client, insights *InsightService) *CareerService {
	return &CareerService{API: api, Insights: insights}
}

// Guide compares a candidate's skills against what the market wants. Recruiters
// get the market view with an empty skill list.
func (s *CareerService) Guide(ctx context.Context, userType models.UserType) (*CareerGuide, error) {
	var names []string
	if userType == models.Candidate {
		skills, err := s.API.ListSkills(ctx)
		if err != nil {
			return nil, err
		}
		for _, sk := range skills {
			names = append(names, sk.SkillName)
		}
	}

	trending, generated := fallbackTrending, false
	if mi := s.Insights.Get(ctx); mi != nil && len(mi.SkillsInDemand) > 0 {
		trending, generated = trendingFromInsights(mi.SkillsInDemand), true
	}

	g := CompareSkills(names, trending)
	g.Roles = jobRoleDemand
	g.Tips = careerTips
	g.Generated = generated
	return g, nil
}

// skillAliases folds common spellings onto one token.
var skillAliases = map[string]string{
	"golang":   "go",
	"reactjs":  "react",
	"react.js": "react",
	"nodejs":   "node.js",
	"node":     "node.js",
	"k8s":      "kubernetes",
	"js":       "javascript",
	"ts":       "typescript",
}

// CompareSkills matches whole words case-insensitively, in either direction,
// so "React Native" on a profile covers "React" in the market list while "Go"
// never matches "Django".
func CompareSkills(have []string, trending []Demand) *CareerGuide {
	g := &CareerGuide{
		Skills:   nonNil(have),
		Trending: trending,
		Matched:  []string{},
		Gaps:     []Demand{},
	}
	mine := make([][]string, 0, len(have))
	for _, h := range have {
		if toks := skillTokens(h); len(toks) > 0 {
			mine = append(mine, toks)
		}
	}
	for _, t := range trending {
		want := skillTokens(t.Name)
		found := false
		for _, h := range mine {
			if containsWords(h, want) || containsWords(want, h) {
				found = true
				break
			}
		}
		if found {
			g.Matched = append(g.Matched, t.Name)
		} else {
			g.Gaps = append(g.Gaps, t)
		}
	}
	return g
}

func skillTokens(name string) []string {
	toks := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		switch r {
		case ' ', '\t', '/', ',', '-', '_', '(', ')', '&':
			return true
		}
		return false
	})
	for i, tok := range toks {
		if alias, ok := skillAliases[tok]; ok {
			toks[i] = alias
		}
	}
	return toks
}

// containsWords reports whether sub appears as a contiguous run of words in s.
func containsWords(s, sub []string) bool {
	if len(sub) == 0 || len(sub) > len(s) {
		return false
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func trendingFromInsights(skills []models.SkillDemand) []Demand {
	out := make([]Demand, 0, len(skills))
	for _, sk := range skills {
		out = append(out, Demand{Name: sk.Skill, Demand: parsePercent(sk.Demand)})
	}
	return out
}

// parsePercent reads "94%" or "94" as 94, anything else as 0.
func parsePercent(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}
