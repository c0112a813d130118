package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"
	"time"

	"log/slog"

	"folio/internal/daemon"
	"folio/internal/library"
	"folio/internal/logging"
	"folio/internal/reconcile"

	"folio/internal/catalog"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("Folio", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path), logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Status = s.daemon.Status()
	return nil
}

func (s *service) List(req ListRequest, resp *ListResponse) error {
	items := s.daemon.List()
	resp.Items = make([]Item, 0, len(items))
	for _, item := range items {
		if req.FavoritesOnly && !item.Favorite {
			continue
		}
		if req.Tag != "" && !hasTag(item.UserTags, req.Tag) {
			continue
		}
		resp.Items = append(resp.Items, item)
	}
	return nil
}

func (s *service) Describe(req DescribeRequest, resp *DescribeResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("item id required")
	}
	item, err := s.daemon.Get(req.ID)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) Reconcile(req ReconcileRequest, resp *ReconcileResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("item id required")
	}
	mode := reconcile.ModeEnhance
	if strings.TrimSpace(req.Mode) != "" {
		parsed, err := reconcile.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		mode = parsed
	}
	s.logger.Debug("reconcile requested",
		logging.String(logging.FieldItemID, req.ID),
		logging.String(logging.FieldMode, string(mode)))
	item, err := s.daemon.Reconcile(s.ctx, req.ID, req.Query, mode, req.WithCover)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) UserUpdate(req UserUpdateRequest, resp *UserUpdateResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("item id required")
	}
	patch := library.UserPatch{
		Rating:     req.Rating,
		Favorite:   req.Favorite,
		AddTags:    req.AddTags,
		RemoveTags: req.RemoveTags,
	}
	if strings.TrimSpace(req.NoteText) != "" {
		patch.AddNote = &catalog.Note{Text: req.NoteText}
	}
	if req.BookmarkSec != nil {
		patch.AddBookmark = &catalog.Bookmark{
			Position: time.Duration(*req.BookmarkSec) * time.Second,
			Label:    req.BookmarkLabel,
		}
	}
	item, err := s.daemon.UpdateUserData(s.ctx, req.ID, patch)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) CoverSearch(req CoverSearchRequest, resp *CoverSearchResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("item id required")
	}
	urls, err := s.daemon.SearchCovers(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.URLs = urls
	return nil
}

func (s *service) CoverSet(req CoverSetRequest, resp *CoverSetResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("item id required")
	}
	if strings.TrimSpace(req.Source) == "" {
		return errors.New("cover source required")
	}
	item, err := s.daemon.UpdateCover(s.ctx, req.ID, req.Source)
	if err != nil {
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) Logs(req LogsRequest, resp *LogsResponse) error {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	chunk, err := s.daemon.TailLog(req.Offset, limit)
	if err != nil {
		return err
	}
	resp.Lines = chunk.Lines
	resp.Offset = chunk.Offset
	return nil
}

// Returning an error from a net/rpc method discards the response payload,
// so delivery failures are reported through Sent and Message instead.
func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	if err != nil {
		s.logger.Warn("test notification failed", logging.Error(err))
	}
	resp.Sent = sent
	resp.Message = message
	return nil
}

func hasTag(tags []string, want string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	for _, tag := range tags {
		if strings.ToLower(tag) == want {
			return true
		}
	}
	return false
}
