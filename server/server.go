// Package server exposes a running StateSimulation over HTTP: the static
// header as JSON, process statistics, and a WebSocket that streams one
// cycle snapshot per message as the simulation advances. It is forward
// only, mirroring the simulation's own no-random-access contract: there is
// no endpoint to seek to an arbitrary cycle.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/shirou/gopsutil/process"
	"golang.org/x/sync/errgroup"

	"github.com/thomashk0/wave/internal/wlog"
	"github.com/thomashk0/wave/simulation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CycleSnapshot is one message of the /stream WebSocket feed.
type CycleSnapshot struct {
	Cycle int64  `json:"cycle"`
	State []int8 `json:"state"`
}

// Server serves a single StateSimulation's header, stats, and live cycle
// stream. A Server is only valid for one run of the simulation: once Run
// drains the source, the /stream connections are closed.
type Server struct {
	sim *simulation.StateSimulation
	log *wlog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan CycleSnapshot
}

// New returns a Server fronting sim. LoadHeader and AllocateState must
// already have been called on sim.
func New(sim *simulation.StateSimulation) *Server {
	return &Server{
		sim:     sim,
		log:     wlog.New("server"),
		clients: make(map[*websocket.Conn]chan CycleSnapshot),
	}
}

func (s *Server) handler() http.Handler {
	router := httprouter.New()
	router.GET("/header", s.handleHeader)
	router.GET("/stats", s.handleStats)
	router.GET("/stream", s.handleStream)
	return cors.Default().Handler(router)
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	info, err := s.sim.HeaderInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// statsResponse reports enough about the serving process for a dashboard
// to show it is alive and keeping up, not a full profiling surface.
type statsResponse struct {
	CPUPercent float64 `json:"cpuPercent"`
	RSSBytes   uint64  `json:"rssBytes"`
	Clients    int     `json:"clients"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := statsResponse{}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if pct, err := proc.CPUPercent(); err == nil {
			resp.CPUPercent = pct
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			resp.RSSBytes = mem.RSS
		}
	}
	s.mu.Lock()
	resp.Clients = len(s.clients)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	ch := make(chan CycleSnapshot, 16)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for snap := range ch {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(snap CycleSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			s.log.Warn("dropping slow stream client", "remote", conn.RemoteAddr().String())
			close(ch)
			delete(s.clients, conn)
		}
	}
}

// closeClients tears down every open /stream connection's channel so the
// per-connection goroutines loop out and close their sockets.
func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		close(ch)
		delete(s.clients, conn)
	}
}

// Run serves addr and drives the simulation forward one cycle at a time,
// broadcasting every snapshot to connected /stream clients, until ctx is
// cancelled or the simulation's source is exhausted.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		for !s.sim.Done() {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			cycle, state, err := s.sim.NextCycle()
			if err != nil {
				return err
			}
			snapshot := CycleSnapshot{Cycle: cycle, State: append([]int8(nil), state...)}
			s.broadcast(snapshot)
		}
		s.closeClients()
		return nil
	})
	return g.Wait()
}
