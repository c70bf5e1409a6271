package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"taxiconfianza-backend/internal/models"

	"gorm.io/gorm"
)

// Минимальная длина ссылки на резюме: "http://a.bc" и короче не принимаем
const minResumeURLLen = 10

var resumeURLPattern = regexp.MustCompile(`^https?://`)

// LifecycleService владеет жизненным циклом оферта -> отклик -> назначение.
// Все проверки владения и состояния выполняются здесь заново при каждом
// вызове: HTTP-слою сервис не доверяет.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db}
}

// EnsureOwnerProfile возвращает профиль propietario, создавая его при первом обращении
func (s *LifecycleService) EnsureOwnerProfile(ctx context.Context, userID uint) (*models.OwnerProfile, error) {
	var profile models.OwnerProfile
	err := s.db.WithContext(ctx).
		Where(models.OwnerProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &profile, nil
}

// EnsureDriverProfile возвращает профиль conductor, создавая его при первом обращении
func (s *LifecycleService) EnsureDriverProfile(ctx context.Context, userID uint) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	err := s.db.WithContext(ctx).
		Where(models.DriverProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &profile, nil
}

// CreateOfferInput — входные данные публикации оферты
type CreateOfferInput struct {
	VehicleID       uint
	Title           string
	Description     string
	City            string
	Shift           models.Shift
	DailyQuota      *float64
	OwnerPercentage *float64
	Requirements    string
	Status          models.OfferStatus
}

// CreateOffer публикует новую оферту владельца
func (s *LifecycleService) CreateOffer(ctx context.Context, ownerID uint, in CreateOfferInput) (*models.Offer, error) {
	title := strings.TrimSpace(in.Title)
	city := strings.TrimSpace(in.City)
	if in.VehicleID == 0 || title == "" || city == "" {
		return nil, fmt.Errorf("%w: обязательны vehicle_id, title и city", ErrValidation)
	}

	quota := 0.0
	if in.DailyQuota != nil {
		quota = *in.DailyQuota
	}
	pct := 0.0
	if in.OwnerPercentage != nil {
		pct = *in.OwnerPercentage
	}
	if quota < 0 || pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: daily_quota >= 0, owner_percentage в пределах 0-100", ErrValidation)
	}
	// Хотя бы одно из условий оплаты должно быть задано
	if quota <= 0 && pct <= 0 {
		return nil, fmt.Errorf("%w: укажите daily_quota или owner_percentage", ErrValidation)
	}

	// Автомобиль должен принадлежать владельцу
	var vehicle models.Vehicle
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", in.VehicleID, ownerID).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: автомобиль", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Недопустимые значения перечислений молча заменяются значениями по умолчанию
	shift := in.Shift
	if !models.ValidShift(shift) {
		shift = models.ShiftDay
	}
	status := in.Status
	if !models.ValidOfferStatus(status) {
		status = models.OfferStatusActive
	}

	offer := &models.Offer{
		OwnerID:         ownerID,
		VehicleID:       in.VehicleID,
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		City:            city,
		Shift:           shift,
		DailyQuota:      in.DailyQuota,
		OwnerPercentage: in.OwnerPercentage,
		Requirements:    strings.TrimSpace(in.Requirements),
		Status:          status,
	}
	if err := s.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return offer, nil
}

// публичный фильтр: активные, не заблокированные, не удалённые
func visibleActiveOffers(db *gorm.DB) *gorm.DB {
	return db.
		Where("offers.status = ?", models.OfferStatusActive).
		Where("offers.locked = ?", false).
		Where("offers.deleted_at IS NULL")
}

// ListActiveOffers возвращает публичный список активных оферт, новые первыми
func (s *LifecycleService) ListActiveOffers(ctx context.Context) ([]models.OfferResponse, error) {
	var offers []models.Offer
	err := visibleActiveOffers(s.db.WithContext(ctx).Model(&models.Offer{})).
		Preload("Vehicle").
		Preload("Owner.User").
		Order("offers.created_at DESC").
		Limit(200).
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		response = append(response, offerToResponse(offer))
	}
	return response, nil
}

// DriverOfferFilters — необязательные фильтры подбора оферт для водителя
type DriverOfferFilters struct {
	City  string
	Shift string
	Text  string
}

// ListOffersForDriver возвращает активные оферты вместе с состоянием
// собственного отклика водителя на каждую из них
func (s *LifecycleService) ListOffersForDriver(ctx context.Context, driverID uint, f DriverOfferFilters) ([]models.OfferResponse, error) {
	query := visibleActiveOffers(s.db.WithContext(ctx).Model(&models.Offer{}))

	if city := strings.TrimSpace(f.City); city != "" {
		query = query.Where("offers.city = ?", city)
	}
	if shift := strings.TrimSpace(f.Shift); shift != "" {
		query = query.Where("offers.shift = ?", shift)
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		like := "%" + text + "%"
		query = query.Where(
			"offers.title LIKE ? OR offers.description LIKE ? OR offers.requirements LIKE ?",
			like, like, like,
		)
	}

	var offers []models.Offer
	err := query.
		Preload("Vehicle").
		Preload("Owner.User").
		Order("offers.created_at DESC").
		Limit(100).
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		item := offerToResponse(offer)

		var app models.Application
		err := s.db.WithContext(ctx).
			Where("offer_id = ? AND driver_id = ?", offer.ID, driverID).
			First(&app).Error
		if err == nil {
			st := app.Status
			at := app.CreatedAt
			item.MyApplicationStatus = &st
			item.MyApplicationDate = &at
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		response = append(response, item)
	}
	return response, nil
}

// ListOffersForOwner возвращает все неудалённые оферты владельца независимо от статуса
func (s *LifecycleService) ListOffersForOwner(ctx context.Context, ownerID uint) ([]models.OfferResponse, error) {
	var offers []models.Offer
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Preload("Vehicle").
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		response = append(response, offerToResponse(offer))
	}
	return response, nil
}

// UpdateOfferStatus переключает статус оферты владельцем.
// Заблокированные и удалённые оферты не трогаем: ноль строк означает "не найдено".
func (s *LifecycleService) UpdateOfferStatus(ctx context.Context, ownerID, offerID uint, status models.OfferStatus) error {
	if !models.ValidOfferStatus(status) {
		return fmt.Errorf("%w: недопустимый статус оферты", ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL AND locked = ?", offerID, ownerID, false).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: оферта", ErrNotFound)
	}
	return nil
}

// DeleteOffer помечает оферту удалённой. Физически записи не удаляются,
// пока на них ссылаются отклики и назначения.
func (s *LifecycleService) DeleteOffer(ctx context.Context, ownerID, offerID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL AND locked = ?", offerID, ownerID, false).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: оферта", ErrNotFound)
	}
	return nil
}

// LockOffer устанавливает или снимает административную блокировку оферты
func (s *LifecycleService) LockOffer(ctx context.Context, offerID uint, locked bool, reason string) error {
	if !locked {
		reason = ""
	}
	res := s.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND deleted_at IS NULL", offerID).
		Updates(map[string]interface{}{
			"locked":      locked,
			"lock_reason": strings.TrimSpace(reason),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: оферта", ErrNotFound)
	}
	return nil
}

// SubmitApplication создаёт отклик водителя на активную оферту.
// Повторная подача на ту же оферту возвращает существующий отклик без ошибки.
func (s *LifecycleService) SubmitApplication(ctx context.Context, driverID, offerID uint, message, resumeURL string) (*models.Application, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL != "" {
		if len(resumeURL) < minResumeURLLen || !resumeURLPattern.MatchString(resumeURL) {
			return nil, fmt.Errorf("%w: resume_url должен быть http(s)-ссылкой", ErrValidation)
		}
	}

	var offer models.Offer
	err := visibleActiveOffers(s.db.WithContext(ctx).Model(&models.Offer{})).
		Where("offers.id = ?", offerID).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: оферта не существует или неактивна", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var existing models.Application
	err = s.db.WithContext(ctx).
		Where("offer_id = ? AND driver_id = ?", offerID, driverID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	app := &models.Application{
		OfferID:   offerID,
		DriverID:  driverID,
		Message:   strings.TrimSpace(message),
		ResumeURL: resumeURL,
		Status:    models.ApplicationStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		// Гонка двух одновременных подач: уникальный индекс пропустил только одну,
		// проигравший возвращает победившую запись
		var raced models.Application
		if ferr := s.db.WithContext(ctx).
			Where("offer_id = ? AND driver_id = ?", offerID, driverID).
			First(&raced).Error; ferr == nil {
			return &raced, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return app, nil
}

// PreselectApplication отмечает отклик как предварительно выбранный.
// Повторная пометка допустима; принятые и отклонённые отклики терминальны.
// Предикат статуса входит в само обновление: отклик, тем временем принятый
// или отклонённый конкурирующим принятием, не перезаписывается.
func (s *LifecycleService) PreselectApplication(ctx context.Context, ownerID, applicationID uint) error {
	app, err := s.findOwnedApplication(ctx, s.db, ownerID, applicationID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status IN ?", app.ID,
			[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusPreselected}).
		Update("status", models.ApplicationStatusPreselected)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: отклик уже рассмотрен", ErrConflict)
	}
	return nil
}

// AcceptApplication принимает отклик: в одной транзакции закрывает оферту,
// создаёт назначение, помечает выбранный отклик принятым и отклоняет остальные.
// Условное закрытие оферты служит барьером сериализации: из двух одновременных
// принятий по одной оферте фиксируется только первое, второе получает ErrConflict.
func (s *LifecycleService) AcceptApplication(ctx context.Context, ownerID, applicationID uint) (*models.Assignment, error) {
	var assignment *models.Assignment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		err := tx.
			Joins("JOIN offers ON offers.id = applications.offer_id").
			Where("applications.id = ?", applicationID).
			Where("offers.owner_id = ?", ownerID).
			Where("offers.status = ?", models.OfferStatusActive).
			Where("offers.deleted_at IS NULL").
			First(&app).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: отклик или оферта недействительны либо оферта неактивна", ErrConflict)
			}
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if app.Status.Terminal() {
			return fmt.Errorf("%w: отклик уже рассмотрен", ErrConflict)
		}

		var offer models.Offer
		if err := tx.First(&offer, app.OfferID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		// Повторная проверка статуса внутри транзакции: ноль строк означает,
		// что конкурирующее принятие закрыло оферту первым
		res := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ?", offer.ID, models.OfferStatusActive).
			Update("status", models.OfferStatusClosed)
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: оферта уже закрыта", ErrConflict)
		}

		assignment = &models.Assignment{
			OfferID:   offer.ID,
			OwnerID:   ownerID,
			DriverID:  app.DriverID,
			VehicleID: offer.VehicleID,
			Status:    models.AssignmentStatusActive,
			StartDate: time.Now(),
		}
		if err := tx.Create(assignment).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Update("status", models.ApplicationStatusAccepted).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		// Конкурирующие нерассмотренные отклики отклоняются той же транзакцией
		if err := tx.Model(&models.Application{}).
			Where("offer_id = ? AND id <> ? AND status IN ?",
				offer.ID, app.ID,
				[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusPreselected}).
			Update("status", models.ApplicationStatusRejected).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// FinalizeAssignment завершает действующее назначение владельцем
func (s *LifecycleService) FinalizeAssignment(ctx context.Context, ownerID, assignmentID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("id = ? AND owner_id = ? AND status = ?", assignmentID, ownerID, models.AssignmentStatusActive).
		Updates(map[string]interface{}{
			"status":   models.AssignmentStatusFinalized,
			"end_date": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: назначение", ErrNotFound)
	}
	return nil
}

// GetApplication возвращает отклик по id с проверкой владения офертой
func (s *LifecycleService) GetApplication(ctx context.Context, ownerID, applicationID uint) (*models.Application, error) {
	return s.findOwnedApplication(ctx, s.db, ownerID, applicationID)
}

func (s *LifecycleService) findOwnedApplication(ctx context.Context, db *gorm.DB, ownerID, applicationID uint) (*models.Application, error) {
	var app models.Application
	err := db.WithContext(ctx).
		Joins("JOIN offers ON offers.id = applications.offer_id").
		Where("applications.id = ?", applicationID).
		Where("offers.owner_id = ?", ownerID).
		Where("offers.deleted_at IS NULL").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: отклик", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &app, nil
}

// ListApplicationsForOwner возвращает отклики по всем неудалённым офертам владельца
func (s *LifecycleService) ListApplicationsForOwner(ctx context.Context, ownerID uint) ([]models.ApplicationResponse, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Joins("JOIN offers ON offers.id = applications.offer_id").
		Where("offers.owner_id = ? AND offers.deleted_at IS NULL", ownerID).
		Preload("Offer").
		Preload("Driver.User").
		Order("applications.created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		response = append(response, applicationToResponse(app))
	}
	return response, nil
}

// ListApplicationsForDriver возвращает собственные отклики водителя
func (s *LifecycleService) ListApplicationsForDriver(ctx context.Context, driverID uint) ([]models.ApplicationResponse, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Preload("Offer").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	response := make([]models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		response = append(response, applicationToResponse(app))
	}
	return response, nil
}

func offerToResponse(offer models.Offer) models.OfferResponse {
	resp := models.OfferResponse{
		ID:              offer.ID,
		OwnerID:         offer.OwnerID,
		VehicleID:       offer.VehicleID,
		Title:           offer.Title,
		Description:     offer.Description,
		City:            offer.City,
		Shift:           offer.Shift,
		DailyQuota:      offer.DailyQuota,
		OwnerPercentage: offer.OwnerPercentage,
		Requirements:    offer.Requirements,
		Status:          offer.Status,
		Locked:          offer.Locked,
		CreatedAt:       offer.CreatedAt,
		VehiclePlate:    offer.Vehicle.Plate,
		VehicleModel:    offer.Vehicle.Model,
	}
	if offer.Owner.User.ID != 0 {
		resp.OwnerName = offer.Owner.User.FirstName + " " + offer.Owner.User.LastName
	}
	return resp
}

func applicationToResponse(app models.Application) models.ApplicationResponse {
	resp := models.ApplicationResponse{
		ID:         app.ID,
		OfferID:    app.OfferID,
		DriverID:   app.DriverID,
		Message:    app.Message,
		ResumeURL:  app.ResumeURL,
		Status:     app.Status,
		CreatedAt:  app.CreatedAt,
		OfferTitle: app.Offer.Title,
		City:       app.Offer.City,
	}
	if app.Driver.User.ID != 0 {
		resp.DriverName = app.Driver.User.FirstName + " " + app.Driver.User.LastName
	}
	return resp
}
