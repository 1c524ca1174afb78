package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

// Recover converts panics into JSON 500 responses. Panic details reach the
// client only when showDetail is set (development builds).
func Recover(showDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Printf("[panic] %v\n%s", rec, debug.Stack())

				message := "Internal server error"
				if showDetail {
					if err, ok := rec.(error); ok {
						message = err.Error()
					} else if s, ok := rec.(string); ok {
						message = s
					}
				}

				utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Something went wrong!",
					"message": message,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
