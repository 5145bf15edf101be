// Package cmd implements the command-line interface for aniflux.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aniflux/aniflux/cache"
	"github.com/aniflux/aniflux/key"
	"github.com/aniflux/aniflux/log"
	"github.com/aniflux/aniflux/resolver"
	"github.com/aniflux/aniflux/server"
	"github.com/aniflux/aniflux/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("host", "H", "", "Interface to bind to (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	lo.Must0(viper.BindPFlag(key.ServerHost, serveCmd.Flags().Lookup("host")))
	lo.Must0(viper.BindPFlag(key.ServerPort, serveCmd.Flags().Lookup("port")))
}

// serveCmd runs the resolve API until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resolve HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(log.SetupServer())

		store, teardown := newResultStore()
		defer teardown()

		engine := resolver.New(resolver.OptionsFromConfig(), store)
		srv := server.New(engine)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info("server: shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		handleErr(srv.ListenAndServe())
	},
}

// newResultStore builds the injected result cache: an in-process TTL map,
// optionally layered over a file-backed store that survives restarts. The
// returned teardown stops the garbage collector.
func newResultStore() (cache.Store[resolver.Result], func()) {
	memory := cache.NewMemory[resolver.Result]()
	stop := memory.CollectGarbage(time.Minute)

	if !viper.GetBool(key.CachePersist) {
		return memory, stop
	}

	persistent := cache.NewPersistent[resolver.Result](where.Results())
	return cache.NewTiered[resolver.Result](memory, persistent), stop
}
