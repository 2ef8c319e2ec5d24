package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/models"
	"github.com/justsurfingit/talentbridge/internal/queue"
)

const MaxResumeSize = 10 << 20

type UploadState string

const (
	UploadQueued     UploadState = "queued"
	UploadProcessing UploadState = "processing"
	UploadCompleted  UploadState = "completed"
	UploadFailed     UploadState = "failed"
)

type UploadStatus struct {
	ID        string                 `json:"id"`
	FileName  string                 `json:"file_name"`
	State     UploadState            `json:"state"`
	Error     string                 `json:"error,omitempty"`
	Result    *models.ResumeAnalysis `json:"result,omitempty"`
	QueuedAt  time.Time              `json:"queued_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ResumePage is the candidate's resume screen: analyses the backend already
// holds plus uploads this gateway is still working on.
type ResumePage struct {
	Analyses []models.ResumeAnalysis `json:"analyses"`
	Uploads  []UploadStatus          `json:"uploads"`
}

// ResumeService accepts resumes immediately and uploads them in the
// background, since the backend analyses a resume before it answers.
type ResumeService struct {
	API   *client.Client
	Queue queue.Queue

	mu      sync.RWMutex
	uploads map[string]*UploadStatus
}

func NewResumeService(api *client.Client, q queue.Queue) *ResumeService {
	return &ResumeService{API: api, Queue: q, uploads: map[string]*UploadStatus{}}
}

// ValidateResume accepts non-empty PDFs up to MaxResumeSize, judged by content.
func ValidateResume(data []byte) error {
	switch {
	case len(data) == 0:
		return ErrEmptyFile
	case len(data) > MaxResumeSize:
		return ErrFileTooLarge
	case !mimetype.Detect(data).Is("application/pdf"):
		return ErrNotPDF
	}
	return nil
}

func (s *ResumeService) Submit(ctx context.Context, fileName string, data []byte) (*UploadStatus, error) {
	if err := ValidateResume(data); err != nil {
		return nil, err
	}
	userType, err := s.API.Session().ActiveUserType(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if userType == "" {
		return nil, client.ErrNoSession
	}
	task := queue.UploadTask{
		ID:       uuid.NewString(),
		FileName: filepath.Base(fileName),
		Data:     data,
		UserType: userType,
		QueuedAt: time.Now(),
	}
	s.track(task, UploadQueued)

	if err := s.Queue.Publish(ctx, task); err != nil {
		s.finish(task.ID, nil, err)
		return nil, err
	}
	log.Printf("📄 Resume %s queued (%s)", task.ID, task.FileName)
	st, _ := s.Status(task.ID)
	return st, nil
}

// Process uploads one queued resume. It is the queue consumer's handler. A
// task is only sent under the same user type that submitted it.
func (s *ResumeService) Process(ctx context.Context, task queue.UploadTask) {
	s.track(task, UploadProcessing)

	active, err := s.API.Session().ActiveUserType(ctx)
	if err == nil && active != task.UserType {
		err = ErrSessionChanged
	}
	if err != nil {
		log.Printf("❌ Resume %s not sent: %v", task.ID, err)
		s.finish(task.ID, nil, err)
		return
	}

	log.Printf("⏳ Uploading resume %s", task.ID)
	res, err := s.API.UploadResume(ctx, task.FileName, task.Data)
	if err != nil {
		log.Printf("❌ Resume %s failed: %v", task.ID, err)
	} else {
		log.Printf("✅ Resume %s analysed", task.ID)
	}
	s.finish(task.ID, res, err)
}

// Run consumes the queue until ctx is cancelled.
func (s *ResumeService) Run(ctx context.Context) error {
	err := s.Queue.Consume(ctx, s.Process)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *ResumeService) Status(id string) (*UploadStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.uploads[id]
	if !ok {
		return nil, ErrUploadNotFound
	}
	cp := *st
	return &cp, nil
}

// Uploads lists tracked uploads, newest first.
func (s *ResumeService) Uploads() []UploadStatus {
	s.mu.RLock()
	out := make([]UploadStatus, 0, len(s.uploads))
	for _, st := range s.uploads {
		out = append(out, *st)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].QueuedAt.After(out[j].QueuedAt) })
	return out
}

func (s *ResumeService) Page(ctx context.Context) (*ResumePage, error) {
	analyses, err := s.API.Resumes(ctx)
	if err != nil {
		return nil, err
	}
	return &ResumePage{Analyses: nonNil(analyses), Uploads: s.Uploads()}, nil
}

func (s *ResumeService) track(task queue.UploadTask, state UploadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.uploads[task.ID]
	if !ok {
		// tasks published by another gateway process arrive untracked
		st = &UploadStatus{ID: task.ID, FileName: task.FileName, QueuedAt: task.QueuedAt}
		s.uploads[task.ID] = st
	}
	st.State = state
	st.UpdatedAt = time.Now()
}

func (s *ResumeService) finish(id string, res *models.ResumeAnalysis, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.uploads[id]
	if !ok {
		return
	}
	st.UpdatedAt = time.Now()
	if err != nil {
		st.State = UploadFailed
		st.Error = err.Error()
		return
	}
	st.State = UploadCompleted
	st.Result = res
}
