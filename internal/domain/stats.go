package domain

import "context"

type Stats struct {
	TotalApplications   int                       `json:"totalApplications"`
	ByStatus            map[ApplicationStatus]int `json:"byStatus"`
	Pending             int                       `json:"pending"`
	Interviews          int                       `json:"interviews"`
	Responses           int                       `json:"responses"`
	Rejected            int                       `json:"rejected"`
	ResponseRate        float64                   `json:"responseRate"`
	UnreadNotifications int64                     `json:"unreadNotifications"`
	Resumes             int                       `json:"resumes"`
	AdaptedResumes      int                       `json:"adaptedResumes"`
	Analyses            int                       `json:"analyses"`
	AverageMatch        int                       `json:"averageMatch"`
}

type StatsUsecase interface {
	GetStats(ctx context.Context, userID string) (*Stats, error)
}
