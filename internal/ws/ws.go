package ws

import (
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/punktprzejscia/przejscie/internal/session"
)

// Server bridges draw sessions onto socket.io so a connected client sees
// every flip/reveal/questions transition as it happens.
type Server struct {
	io *socketio.Server
	sm *session.Manager
}

func New(sm *session.Manager) *Server {
	s := &Server{io: socketio.NewServer(nil), sm: sm}
	sm.SetNotify(s.broadcastState)
	s.register()
	return s
}

func room(sessionID string) string {
	return "session:" + sessionID
}

func (s *Server) register() {
	s.io.OnConnect("/", func(c socketio.Conn) error {
		c.SetContext("")
		return nil
	})

	s.io.OnEvent("/", "join", func(c socketio.Conn, sessionID string) {
		sess, err := s.sm.Get(sessionID)
		if err != nil {
			c.Emit("error", err.Error())
			return
		}
		c.Join(room(sessionID))
		c.SetContext(sessionID)
		c.Emit("state", sess.State())
	})

	s.io.OnEvent("/", "draw", func(c socketio.Conn) {
		sess, err := s.session(c)
		if err != nil {
			c.Emit("error", err.Error())
			return
		}
		if err := sess.Draw(); err != nil {
			// Guard rejection, not a failure; the client keeps its state.
			c.Emit("draw_rejected", err.Error())
		}
	})

	s.io.OnEvent("/", "regenerate", func(c socketio.Conn) {
		sess, err := s.session(c)
		if err != nil {
			c.Emit("error", err.Error())
			return
		}
		if err := sess.RegenerateQuestions(); err != nil {
			c.Emit("draw_rejected", err.Error())
		}
	})

	s.io.OnError("/", func(c socketio.Conn, err error) {
		log.Warn().Err(err).Msg("socket error")
	})

	s.io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		c.LeaveAll()
	})
}

func (s *Server) session(c socketio.Conn) (*session.Ctx, error) {
	sessionID, _ := c.Context().(string)
	return s.sm.Get(sessionID)
}

func (s *Server) broadcastState(sessionID string, st session.State) {
	s.io.BroadcastToRoom("/", room(sessionID), "state", st)
}

// Mount attaches the socket endpoint to the router and starts the serve loop.
// The caller owns closing the returned server.
func (s *Server) Mount(r *gin.Engine) *socketio.Server {
	go func() {
		if err := s.io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket serve loop ended")
		}
	}()
	r.GET("/socket.io/*any", gin.WrapH(s.io))
	r.POST("/socket.io/*any", gin.WrapH(s.io))
	return s.io
}
