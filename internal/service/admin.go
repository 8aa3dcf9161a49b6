package service

import (
	"context"
	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"time"
)

const (
	dashboardMonths      = 12
	dashboardTopProducts = 5
)

// AdminService computes read-side rollups on demand. Nothing here is cached;
// every dashboard request recomputes from the persisted orders and users.
type AdminService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, int64, error)
	UpdateUserRole(ctx context.Context, userID string, role model.Role) error
	DeleteUser(ctx context.Context, userID string) error
}

type adminServiceImpl struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

func NewAdminService(orderRepo repository.OrderRepository, userRepo repository.UserRepository) AdminService {
	return &adminServiceImpl{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

func (s *adminServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.PaidRevenueCents(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int64, len(statusCounts))
	for _, row := range statusCounts {
		byStatus[string(row.Status)] = row.Count
	}

	byMonth, err := s.revenueByMonth(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.orderRepo.TopProducts(ctx, dashboardTopProducts)
	if err != nil {
		return nil, err
	}
	topProducts := make([]*dto.TopProduct, len(sales))
	for i, row := range sales {
		topProducts[i] = &dto.TopProduct{
			ProductID:    row.ProductID,
			Title:        row.Title,
			QuantitySold: row.QuantitySold,
			Revenue:      Display(row.RevenueCents),
			RevenueCents: row.RevenueCents,
		}
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ordersToday, err := s.orderRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	usersToday, err := s.userRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	revenueToday, err := s.orderRepo.PaidRevenueCentsSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalOrders:    totalOrders,
		TotalUsers:     totalUsers,
		TotalRevenue:   Display(revenue),
		RevenueCents:   revenue,
		OrdersByStatus: byStatus,
		RevenueByMonth: byMonth,
		TopProducts:    topProducts,
		OrdersToday:    ordersToday,
		UsersToday:     usersToday,
		RevenueToday:   Display(revenueToday),
	}, nil
}

// revenueByMonth buckets paid-order totals into trailing calendar months in
// Go rather than SQL, keeping the query portable across mysql and the
// sqlite used in tests.
func (s *adminServiceImpl) revenueByMonth(ctx context.Context) ([]*dto.MonthRevenue, error) {
	now := time.Now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(dashboardMonths - 1), 0)

	rows, err := s.orderRepo.PaidOrdersSince(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, dashboardMonths)
	for _, row := range rows {
		totals[row.CreatedAt.Format("2006-01")] += row.TotalCents
	}

	months := make([]*dto.MonthRevenue, 0, dashboardMonths)
	for i := 0; i < dashboardMonths; i++ {
		month := windowStart.AddDate(0, i, 0).Format("2006-01")
		cents := totals[month]
		months = append(months, &dto.MonthRevenue{
			Month:   month,
			Revenue: Display(cents),
			Cents:   cents,
		})
	}

	return months, nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, int64, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *adminServiceImpl) UpdateUserRole(ctx context.Context, userID string, role model.Role) error {
	if !role.Valid() {
		return apperr.Validation("unknown role %q", role)
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
