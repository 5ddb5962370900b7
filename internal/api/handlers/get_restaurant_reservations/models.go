package get_restaurant_reservations

import (
	"strconv"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest собирает запрос к сервису из path и query параметров
func ToServiceRequest(
	restaurantID, userID int64,
	tableIDStr, statusStr, startDateStr, endDateStr, includeInactiveStr, pageStr, pageSizeStr string,
) (*models.SearchReservationsRequest, error) {
	req := &models.SearchReservationsRequest{
		UserID:       userID,
		RestaurantID: restaurantID,
	}

	if tableIDStr != "" {
		tableID, err := strconv.ParseInt(tableIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.TableID = &tableID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	if pageStr != "" {
		page, err := strconv.ParseUint(pageStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Page = page
	}

	if pageSizeStr != "" {
		pageSize, err := strconv.ParseUint(pageSizeStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.PageSize = pageSize
	}

	return req, nil
}
