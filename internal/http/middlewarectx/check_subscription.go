package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/stepanenkodv/realty-board/internal/http/response"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
	"github.com/stepanenkodv/realty-board/internal/models"
	quota "github.com/stepanenkodv/realty-board/internal/services/quota"
)

// QuotaServiceInterface определяет операции квоты, нужные middleware.
type QuotaServiceInterface interface {
	ActiveSubscription(ctx context.Context, userUID string) (*models.UserSubscription, *models.SubscriptionPlan, error)
}

// ActiveSubscriptionMiddleware создает middleware, пропускающий дальше только
// пользователей с действующей подпиской. Вешается на маршруты мастера
// и публикации: без подписки начинать объявление нельзя.
func ActiveSubscriptionMiddleware(log *slog.Logger, quotaService QuotaServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			_, _, err := quotaService.ActiveSubscription(r.Context(), userUID)
			if err != nil {
				if errors.Is(err, quota.ErrNoActiveSubscription) {
					log.Error("no active subscription, access denied")
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("no active subscription, access denied"))
					return
				}
				log.Error("failed to check subscription", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
