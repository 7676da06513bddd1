package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/gethiox/sourcetracker/internal/pkg/controller"
	"github.com/gethiox/sourcetracker/internal/pkg/controller/config"
	"github.com/gethiox/sourcetracker/internal/pkg/input"
	"github.com/gethiox/sourcetracker/internal/pkg/logger"
)

// runManager is the main program process, it reports devices as sources until ctx is done.
// Every mapping config change reconnects all devices with fresh configs.
// All sources are reported as lost before it returns.
func runManager(ctx context.Context, cfg Config, manager *controller.Manager) {
	factory, user := config.Dirs(configDir)
	configChange := config.DetectConfigChanges(ctx, factory, user)

	wg := sync.WaitGroup{}

	log.Info("Run manager", logger.Debug)
root:
	for {
		select {
		case <-ctx.Done():
			break root
		default:
		}

		configs, err := config.LoadDeviceConfigs(configDir)
		if err != nil {
			log.Info(fmt.Sprintf("Device Configs load failed: %s", err), logger.Error)
			break root
		}

		ctxDevice, cancel := context.WithCancel(ctx)

		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case _, ok := <-configChange:
				if !ok {
					<-ctxDevice.Done()
					return
				}
				log.Info("handling config change", logger.Info)
				cancel()
			case <-ctxDevice.Done():
			}
		}()

		devices := input.MonitorDevices(ctxDevice, cfg.App.StabilizationPeriod, cfg.App.DiscoveryRate)
		manager.Run(ctxDevice, devices, configs)
		cancel()
	}
	wg.Wait()
	log.Info("Exit manager", logger.Debug)
}
