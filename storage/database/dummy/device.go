package dummydb

import (
	"context"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
)

type deviceRepository struct {
	db *DB
}

var _ device.Repository = (*deviceRepository)(nil) // interface compliance check

func NewDeviceRepository(db *DB) *deviceRepository {
	return &deviceRepository{db: db}
}

func (repo *deviceRepository) GetDeviceByDeviceID(_ context.Context, deviceID string) (device.Device, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if dev, ok := repo.db.devices[deviceID]; ok {
		return *dev, nil
	}
	return device.Device{}, device.ErrNotFound
}

func (repo *deviceRepository) CreateDevice(_ context.Context, dev device.Device) (device.Device, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.devicePK++
	dev.ID = repo.db.devicePK
	repo.db.devices[dev.DeviceID] = &dev
	return dev, nil
}

func (repo *deviceRepository) UpdateDevice(_ context.Context, dev device.Device) (device.Device, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.devices[dev.DeviceID]; !ok {
		return device.Device{}, device.ErrNotFound
	}
	repo.db.devices[dev.DeviceID] = &dev
	return dev, nil
}

func (repo *deviceRepository) CreateLocationSample(_ context.Context, sample device.LocationSample) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sample.ID = int64(len(repo.db.locationSamples) + 1)
	repo.db.locationSamples = append(repo.db.locationSamples, sample)
	return nil
}

func (repo *deviceRepository) GetPrintEventByKey(_ context.Context, key string) (device.PrintEvent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if ev, ok := repo.db.printEvents[key]; ok {
		return *ev, nil
	}
	return device.PrintEvent{}, device.ErrEventNotFound
}

func (repo *deviceRepository) CreatePrintEvent(_ context.Context, ev device.PrintEvent) (device.PrintEvent, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.printEvents[ev.IdempotencyKey] = &ev
	return ev, nil
}
