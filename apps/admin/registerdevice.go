package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) registerDevice(deviceID, model string) error {
	dev, err := cli.deviceSvc.Register(context.Background(), deviceID, model)
	if err != nil {
		return err
	}
	fmt.Printf("device registered:\n  device_id:  %s\n  secret_key: %s\n", dev.DeviceID, dev.SecretKey)
	return nil
}
