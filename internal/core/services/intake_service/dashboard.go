package intake_service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

const dashboardAlertMessage = "Some appointments could not be loaded. Pull to refresh or reopen the dashboard."

var errPathNotResolved = errors.New("appointments path not resolved for role")

type collectionResult struct {
	records []domain.AppointmentRecord
	err     error
}

// Dashboard загружает консультации и процедуры независимо друг от друга.
// Ошибка одной загрузки не влияет на другую: список остается пустым, пользователь получает alert.
func (s *IntakeService) Dashboard(ctx context.Context, sessionID string, query domain.DashboardQuery) (*domain.DashboardView, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	policy := PolicyFor(session.RoleID)
	view := ResolveView(session.RoleID, query.View)
	debug := &dashboardDebug{enabled: query.Debug}

	if policy.BranchFilter && session.BranchID == "" {
		s.logger.Warn("dashboard.branch_filter.no_branch", out.LogFields{
			"sessionId": sessionID,
			"roleId":    session.RoleID,
		})
	}

	collections := []domain.AppointmentType{
		domain.AppointmentTypeConsultation,
		domain.AppointmentTypeTreatment,
	}
	results := make(map[domain.AppointmentType]collectionResult, len(collections))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, collection := range collections {
		wg.Add(1)
		go func(collection domain.AppointmentType) {
			defer wg.Done()

			info := domain.NewDebugInfo("dashboard." + strings.ToLower(string(collection)) + ".fetch")
			records, err := s.loadCollection(ctx, *session, collection)
			if err == nil {
				records = applyRoleFilters(records, collection, policy, *session)
			}
			info.Finish(len(records), err)
			debug.add(info)

			mu.Lock()
			results[collection] = collectionResult{records: records, err: err}
			mu.Unlock()
		}(collection)
	}
	wg.Wait()

	dashboard := &domain.DashboardView{
		View:   view.View,
		Locked: view.Locked,
		Totals: make(map[domain.ViewType]int, len(collections)),
	}

	for _, collection := range collections {
		result := results[collection]
		if result.err != nil {
			s.logger.Error("dashboard.collection.fetch_failed", out.LogFields{
				"sessionId":  sessionID,
				"collection": collection,
				"error":      result.err.Error(),
			})
			dashboard.Alert = dashboardAlertMessage
		}
		dashboard.Totals[viewOf(collection)] = len(result.records)
	}

	visible := results[view.View.AppointmentType()].records
	dashboard.Counts = CountByBucket(visible)

	filtered := FilterByBucket(visible, query.Bucket)
	filtered = searchByName(filtered, query.Search)

	dashboard.Items = lo.Map(filtered, func(record domain.AppointmentRecord, _ int) domain.DashboardItem {
		progress := Evaluate(record)
		return domain.DashboardItem{
			AppointmentRecord: record,
			Bucket:            ClassifyRecord(record),
			Progress:          progress,
			Segments:          progress.Segments(),
			Badge:             record.CustomerType.Badge(),
		}
	})
	dashboard.Total = len(dashboard.Items)
	dashboard.Debug = debug.collected()

	s.logger.Debug("dashboard.built", out.LogFields{
		"sessionId": sessionID,
		"view":      dashboard.View,
		"bucket":    query.Bucket,
		"items":     dashboard.Total,
	})

	return dashboard, nil
}

func (s *IntakeService) loadCollection(ctx context.Context, session domain.Session, collection domain.AppointmentType) ([]domain.AppointmentRecord, error) {
	path, ok := AppointmentsPath(session, collection)
	if !ok {
		s.logger.Warn("dashboard.collection.path_not_resolved", out.LogFields{
			"sessionId":  session.ID,
			"roleId":     session.RoleID,
			"collection": collection,
		})
		return nil, errPathNotResolved
	}

	return s.loadAppointments(ctx, collection, path)
}

func (s *IntakeService) loadAppointments(ctx context.Context, collection domain.AppointmentType, path string) ([]domain.AppointmentRecord, error) {
	if s.cachePort != nil {
		if records, exists := s.cachePort.GetAppointments(ctx, path); exists {
			return records, nil
		}
	}

	records, err := s.clinicPort.GetAppointments(ctx, path)
	s.metrics.BackendFetched(collection, err == nil)
	if err != nil {
		return nil, err
	}

	records = s.normalizeCollection(records, collection)

	if s.cachePort != nil {
		s.cachePort.StoreAppointments(ctx, path, records)
	}

	return records, nil
}

// normalizeCollection тип записи определяется коллекцией, из которой она пришла,
// id записи переносится в поле нужного типа
func (s *IntakeService) normalizeCollection(records []domain.AppointmentRecord, collection domain.AppointmentType) []domain.AppointmentRecord {
	normalized := make([]domain.AppointmentRecord, 0, len(records))
	for _, record := range records {
		if record.AppointmentType != "" && record.AppointmentType != collection {
			s.logger.Warn("appointments.type_mismatch", out.LogFields{
				"appointmentId": record.ID,
				"recordType":    record.AppointmentType,
				"collection":    collection,
			})
		}
		record.AppointmentType = collection

		if collection == domain.AppointmentTypeTreatment {
			record.TreatmentAppointmentID = record.ID
			record.ConsultationAppointmentID = ""
		} else {
			record.ConsultationAppointmentID = record.ID
			record.TreatmentAppointmentID = ""
		}

		normalized = append(normalized, record)
	}
	return normalized
}

func applyRoleFilters(records []domain.AppointmentRecord, collection domain.AppointmentType, policy domain.RolePolicy, session domain.Session) []domain.AppointmentRecord {
	// Фильтр по филиалу применяется только к процедурам
	if collection == domain.AppointmentTypeTreatment && policy.BranchFilter {
		records = lo.Filter(records, func(record domain.AppointmentRecord, _ int) bool {
			return session.BranchID != "" && record.BranchID.String() == session.BranchID
		})
	}

	if policy.IntakeCompleteOnly {
		records = lo.Filter(records, func(record domain.AppointmentRecord, _ int) bool {
			return Evaluate(record).IntakeComplete()
		})
	}

	return records
}

func searchByName(records []domain.AppointmentRecord, search string) []domain.AppointmentRecord {
	search = strings.ToLower(search)
	if search == "" {
		return records
	}
	return lo.Filter(records, func(record domain.AppointmentRecord, _ int) bool {
		return strings.Contains(strings.ToLower(record.CustomerFName+" "+record.CustomerLName), search)
	})
}

func viewOf(collection domain.AppointmentType) domain.ViewType {
	if collection == domain.AppointmentTypeTreatment {
		return domain.ViewTreatment
	}
	return domain.ViewConsultation
}
