package services

import (
	"context"
	"fmt"
	"time"

	"akatsuki/backend/events"
	"akatsuki/backend/metrics"
	"akatsuki/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseService interface {
	ListCourses(ctx context.Context, page, limit int) (*CoursePage, error)
	GetCourse(ctx context.Context, courseID uint) (*CourseDetail, error)
	Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentView, error)
	ListEnrollments(ctx context.Context, userID uint) ([]*EnrollmentView, error)
	GetEnrollment(ctx context.Context, userID, courseID uint) (*EnrollmentView, error)
	UpdateCourseProgress(ctx context.Context, userID, courseID uint, upd CourseUpdate) (*EnrollmentView, error)
	GetCertificate(ctx context.Context, code string) (*CertificateView, error)
}

// CourseUpdate carries the optional fields of an enrollment update.
type CourseUpdate struct {
	Progress *int
	Status   *models.CourseStatus
}

type courseService struct {
	Deps
}

func NewCourseService(d Deps) CourseService {
	return &courseService{Deps: d}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *courseService) course(ctx context.Context, tx *gorm.DB, courseID uint) (*models.Course, error) {
	course, err := s.Store.Catalog.GetCourse(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, page, limit int) (*CoursePage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	courses, total, err := s.Store.Catalog.ListCourses(ctx, nil, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	items := make([]CourseSummary, 0, len(courses))
	for i := range courses {
		items = append(items, courseSummary(&courses[i]))
	}
	return &CoursePage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID uint) (*CourseDetail, error) {
	course, err := s.course(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	modules, err := s.Store.Catalog.ListModules(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	lessons, err := s.Store.Catalog.ListLessonsByModules(ctx, nil, moduleIDs)
	if err != nil {
		return nil, err
	}
	byModule := make(map[uint][]LessonSummary, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], LessonSummary{
			ID:            l.ID,
			Title:         l.Title,
			SequenceOrder: l.SequenceOrder,
			XPReward:      l.XPReward,
		})
	}

	detail := &CourseDetail{CourseSummary: courseSummary(course), Modules: make([]ModuleView, 0, len(modules))}
	for _, m := range modules {
		ls := byModule[m.ID]
		if ls == nil {
			ls = []LessonSummary{}
		}
		detail.Modules = append(detail.Modules, ModuleView{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			SequenceOrder: m.SequenceOrder,
			Lessons:       ls,
		})
	}
	return detail, nil
}

func (s *courseService) Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentView, error) {
	course, err := s.course(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	uc := &models.UserCourse{
		UserID:    userID,
		CourseID:  courseID,
		Status:    models.CourseInProgress,
		StartedAt: time.Now().UTC(),
	}
	created, err := s.Store.Enrollments.Create(ctx, nil, uc)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%w: already enrolled in course %d", ErrConflict, courseID)
	}

	s.Log.Infow("enrolled", "user_id", userID, "course_id", courseID)
	return enrollmentView(uc, course.Title), nil
}

func (s *courseService) ListEnrollments(ctx context.Context, userID uint) ([]*EnrollmentView, error) {
	list, err := s.Store.Enrollments.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*EnrollmentView, 0, len(list))
	for i := range list {
		title := ""
		course, err := s.Store.Catalog.GetCourse(ctx, nil, list[i].CourseID)
		if err != nil {
			return nil, err
		}
		if course != nil {
			title = course.Title
		}
		out = append(out, enrollmentView(&list[i], title))
	}
	return out, nil
}

func (s *courseService) GetEnrollment(ctx context.Context, userID, courseID uint) (*EnrollmentView, error) {
	course, err := s.course(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	uc, err := s.Store.Enrollments.Get(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}
	if uc == nil {
		return nil, fmt.Errorf("%w: not enrolled in course %d", ErrNotFound, courseID)
	}

	view := enrollmentView(uc, course.Title)

	modules, err := s.Store.Catalog.ListModules(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	lessons, err := s.Store.Catalog.ListLessonsByModules(ctx, nil, moduleIDs)
	if err != nil {
		return nil, err
	}
	lessonIDs := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}
	done, err := s.Store.Progress.CountCompleted(ctx, nil, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	view.LessonsTotal = len(lessons)
	view.LessonsCompleted = done

	if uc.Status == models.CourseCompleted {
		cert, err := s.Store.Certificates.GetByUserCourse(ctx, nil, userID, courseID)
		if err != nil {
			return nil, err
		}
		if cert != nil {
			view.CertificateCode = cert.VerificationCode
		}
	}
	return view, nil
}

// UpdateCourseProgress applies a caller-supplied percentage and status. The
// in_progress->completed edge forces progress to 100 and credits the course
// reward once. A completed enrollment is frozen.
func (s *courseService) UpdateCourseProgress(ctx context.Context, userID, courseID uint, upd CourseUpdate) (*EnrollmentView, error) {
	if upd.Progress != nil && (*upd.Progress < 0 || *upd.Progress > 100) {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *upd.Status)
	}

	course, err := s.course(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}

	var (
		view      *EnrollmentView
		completed bool
		totalXP   int
		certCode  string
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uc, err := s.Store.Enrollments.GetForUpdate(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if uc == nil {
			return fmt.Errorf("%w: not enrolled in course %d", ErrNotFound, courseID)
		}

		if uc.Status == models.CourseCompleted {
			view = enrollmentView(uc, course.Title)
			return nil
		}

		if upd.Progress != nil {
			uc.Progress = *upd.Progress
		}

		if upd.Status != nil && *upd.Status == models.CourseCompleted {
			now := time.Now().UTC()
			uc.Status = models.CourseCompleted
			uc.Progress = 100
			uc.CompletedAt = &now
			uc.EarnedXP = course.XPReward

			credited, total, err := s.creditXP(ctx, tx, userID, models.XPSourceCourse, courseID, course.XPReward, map[string]interface{}{
				"course_title": course.Title,
			})
			if err != nil {
				return err
			}
			if credited {
				completed = true
				totalXP = total
			}

			cert := &models.Certificate{
				UserID:           userID,
				CourseID:         courseID,
				VerificationCode: uuid.NewString(),
				IssuedAt:         now,
				IsValid:          true,
			}
			issued, err := s.Store.Certificates.Create(ctx, tx, cert)
			if err != nil {
				return fmt.Errorf("issue certificate: %w", err)
			}
			if !issued {
				existing, err := s.Store.Certificates.GetByUserCourse(ctx, tx, userID, courseID)
				if err != nil {
					return fmt.Errorf("load certificate: %w", err)
				}
				if existing == nil {
					return fmt.Errorf("certificate for user %d course %d vanished", userID, courseID)
				}
				cert = existing
			}
			certCode = cert.VerificationCode
		}

		if err := s.Store.Enrollments.Save(ctx, tx, uc); err != nil {
			return err
		}
		view = enrollmentView(uc, course.Title)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		view.CertificateCode = certCode
		metrics.CoursesCompleted.Inc()
		metrics.XPAwarded.WithLabelValues(models.XPSourceCourse).Add(float64(course.XPReward))
		s.Log.Infow("course completed",
			"user_id", userID,
			"course_id", courseID,
			"xp", course.XPReward,
		)
		s.afterCommit(ctx, userID, totalXP, &events.Event{
			Type:       events.CourseCompleted,
			UserID:     userID,
			CourseID:   courseID,
			XP:         course.XPReward,
			OccurredAt: time.Now().UTC(),
		})
	}
	return view, nil
}

func (s *courseService) GetCertificate(ctx context.Context, code string) (*CertificateView, error) {
	cert, err := s.Store.Certificates.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: certificate %q", ErrNotFound, code)
	}

	view := &CertificateView{
		VerificationCode: cert.VerificationCode,
		UserID:           cert.UserID,
		CourseID:         cert.CourseID,
		IssuedAt:         cert.IssuedAt,
		IsValid:          cert.IsValid,
	}
	if u, err := s.Store.Users.GetByID(ctx, nil, cert.UserID); err != nil {
		return nil, err
	} else if u != nil {
		view.Nickname = u.Nickname
	}
	if c, err := s.Store.Catalog.GetCourse(ctx, nil, cert.CourseID); err != nil {
		return nil, err
	} else if c != nil {
		view.CourseTitle = c.Title
	}
	return view, nil
}
