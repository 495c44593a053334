package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"readiness-service/internal/models"

	"github.com/gin-gonic/gin"
)

func TestPlanErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &PlanHandler{}

	cases := []struct {
		err  error
		want int
	}{
		{models.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load user: %w", models.ErrNotFound), http.StatusNotFound},
		{errors.New("mongo unavailable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		h.writeError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("err %v: status %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestTargetMinutesQueryParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  int
	}{
		{"", defaultTargetMinutes},
		{"target_minutes=90", 90},
		{"target_minutes=0", defaultTargetMinutes},
		{"target_minutes=abc", defaultTargetMinutes},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/plan/daily?"+tc.query, nil)

		if got := targetMinutes(c); got != tc.want {
			t.Errorf("query %q: got %d, want %d", tc.query, got, tc.want)
		}
	}
}
