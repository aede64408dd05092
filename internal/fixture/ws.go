package fixture

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Fixture only serves the suite's own browser.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// generationEvent is one frame of the render-generation stream.
type generationEvent struct {
	Type     string  `json:"type"`
	Progress float64 `json:"progress,omitempty"`
	Status   string  `json:"status,omitempty"`
	JobID    string  `json:"job_id,omitempty"`
}

// handleGenerationWS streams a scripted render-generation run: progress frames
// at 20% increments, then a completion frame, then a server-side close.
func (s *Server) handleGenerationWS(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessionFromRequest(r); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		jobID = "job-1"
	}

	for progress := 20.0; progress <= 100.0; progress += 20.0 {
		event := generationEvent{Type: "generation_progress", Progress: progress, JobID: jobID}
		if err := conn.WriteJSON(event); err != nil {
			s.log.Debug("websocket write failed", "error", err)
			return
		}
		time.Sleep(s.progressInterval)
	}

	done := generationEvent{Type: "generation_complete", Status: "completed", JobID: jobID}
	if err := conn.WriteJSON(done); err != nil {
		return
	}

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"), deadline)
}
