// Command pvadapterctl is a manual smoke-test harness for the process
// variable adapter. It is not part of the adapter's API surface — it
// exists only to exercise a manager pair by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jabolina/pvadapter"
	"github.com/jabolina/pvadapter/internal/config"
	"github.com/jabolina/pvadapter/internal/logging"
	pvsync "github.com/jabolina/pvadapter/sync"
)

func main() {
	var (
		configFile = flag.String("config", "", "optional config file (env PVADAPTER_* always applies)")
		debug      = flag.Bool("debug", false, "enable debug logging")
		rounds     = flag.Int("rounds", 3, "number of send/receive rounds to run")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger()
	logger.ToggleDebug(*debug)

	defaults, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("loading configuration: %v", err)
	}
	if defaults.DebugLogging {
		logger.ToggleDebug(true)
	}
	logger.Debugf("using configuration %+v", defaults)

	cm, dm := pvadapter.NewManagerPair(
		pvadapter.WithManagerLogger(logger),
	)

	setpoint, err := pvadapter.CreateProcessScalar[float64](dm, "/control/SETPOINT", 0, defaults.NumberOfBuffers, pvadapter.ControlSystemToDevice)
	if err != nil {
		logger.Fatalf("creating setpoint PV: %v", err)
	}
	reading, err := pvadapter.CreateProcessScalar[float64](dm, "/device/READING", 0, defaults.NumberOfBuffers, pvadapter.DeviceToControlSystem)
	if err != nil {
		logger.Fatalf("creating reading PV: %v", err)
	}

	controlSetpoint, err := pvadapter.GetProcessScalar[float64](cm, "/control/SETPOINT")
	if err != nil {
		logger.Fatalf("looking up setpoint on control system side: %v", err)
	}
	controlReading, err := pvadapter.GetProcessScalar[float64](cm, "/device/READING")
	if err != nil {
		logger.Fatalf("looking up reading on control system side: %v", err)
	}

	deviceSync := pvsync.NewDeviceSync(dm, logger)
	controlSync := pvsync.NewControlSystemSync(cm, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*rounds)*50*time.Millisecond)
	defer cancel()
	errCh := controlSync.WaitForNotificationsUntilCanceled(ctx, defaults.NotificationDrainInterval)

	for i := 0; i < *rounds; i++ {
		controlSetpoint.Set(float64(i) * 1.5)
		if _, err := controlSetpoint.Send(); err != nil {
			logger.Fatalf("sending setpoint: %v", err)
		}
		if _, err := deviceSync.ReceiveAll(); err != nil {
			logger.Fatalf("draining device notifications: %v", err)
		}

		reading.Set(setpoint.Get() * 2)
		if _, err := reading.Send(); err != nil {
			logger.Fatalf("sending reading: %v", err)
		}

		fmt.Printf("round %d: device sees setpoint=%v, control sees reading=%v\n", i, setpoint.Get(), controlReading.Get())
	}

	<-ctx.Done()
	if err := <-errCh; err != nil {
		logger.Errorf("notification loop ended with error: %v", err)
		os.Exit(1)
	}
}
