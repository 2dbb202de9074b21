package bootstrap

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/logger"
)

// PrintBannerFromFile prints the startup banner when the file exists; a
// missing banner is not an error.
func PrintBannerFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("roomvoice")
			return nil
		}
		return err
	}
	fmt.Println(string(data))
	return nil
}

// LogConfigInfo prints the effective configuration at startup.
func LogConfigInfo() {
	cfg := config.GlobalConfig
	logger.Info("configuration loaded",
		zap.String("addr", cfg.Addr),
		zap.String("mode", cfg.Mode),
		zap.String("dbDriver", cfg.DBDriver),
		zap.String("apiPrefix", cfg.APIPrefix),
		zap.String("backend", cfg.BackendBaseURL),
		zap.Strings("providers", cfg.Providers),
		zap.Int("roomRetryLimit", cfg.RoomRetryLimit),
	)
}
