package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/schoolit/servicedesk/internal/shared/constants"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func actorEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequireActor())
	r.GET("/whoami", func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.String(http.StatusOK, actor.ID+"|"+actor.Name)
	})
	return r
}

func TestRequireActor(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		actor    string
		wantCode int
		wantBody string
	}{
		{name: "both headers", id: "tech_1", actor: "Dana", wantCode: http.StatusOK, wantBody: "tech_1|Dana"},
		{name: "percent-encoded name", id: "tech_2", actor: "%D7%93%D7%A0%D7%94", wantCode: http.StatusOK, wantBody: "tech_2|דנה"},
		{name: "missing id", actor: "Dana", wantCode: http.StatusBadRequest},
		{name: "name is optional", id: "tech_1", wantCode: http.StatusOK, wantBody: "tech_1|"},
		{name: "blank id", id: "  ", actor: "Dana", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.id != "" {
				req.Header.Set(constants.HeaderActorID, tt.id)
			}
			if tt.actor != "" {
				req.Header.Set(constants.HeaderActorName, tt.actor)
			}
			w := httptest.NewRecorder()
			actorEngine().ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRecovery_AnswersInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://desk.example.test"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://desk.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://desk.example.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
