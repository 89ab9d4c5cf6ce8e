package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	boardv1 "github.com/Leganyst/production-board/internal/api/board/v1"
	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/service"
	"github.com/Leganyst/production-board/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over gRPC",
	Long: `Starts the board.v1.BoardService gRPC server (with reflection).
Read-only SVG, text and table views are served over HTTP on
BOARD_HTTP_ADDR (empty disables them). The board config file is reloaded
on change unless BOARD_CONFIG_WATCH=false.
SIGINT or SIGTERM stops the server gracefully.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverCfg := config.LoadServerConfig()
	if boardFile != "" {
		serverCfg.BoardFile = boardFile
	}

	var (
		board   config.BoardSource
		watcher *config.BoardWatcher
	)
	if serverCfg.WatchBoard {
		w, err := config.NewBoardWatcher(serverCfg.BoardFile, logger)
		if err != nil {
			return err
		}
		board, watcher = w, w
	}

	a, err := openApp(board)
	if err != nil {
		return err
	}
	defer a.Close()

	grpcServer := grpc.NewServer()
	boardv1.RegisterBoardServiceServer(grpcServer, service.NewBoardServer(a.boardSvc, a.syncSvc, logger))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", a.server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.server.GRPCAddr, err)
	}
	logger.Info("board gRPC server listening", zap.String("addr", a.server.GRPCAddr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}
	if addr := a.server.HTTPAddr; addr != "" {
		httpApp := web.New(a.boardSvc, func() *time.Location { return a.board.Board().Location() }, logger)
		g.Go(func() error {
			logger.Info("board HTTP views listening", zap.String("addr", addr))
			if err := httpApp.Listen(addr); err != nil {
				return fmt.Errorf("http serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return httpApp.ShutdownWithTimeout(10 * time.Second)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gRPC server")
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
