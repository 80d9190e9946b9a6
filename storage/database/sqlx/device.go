package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
)

type deviceRepository struct {
	db *sqlx.DB
}

var _ device.Repository = (*deviceRepository)(nil) // interface compliance check

func NewDeviceRepository(db *sqlx.DB) *deviceRepository {
	return &deviceRepository{db: db}
}

func (repo deviceRepository) GetDeviceByDeviceID(ctx context.Context, deviceID string) (device.Device, error) {
	var dev device.Device
	err := repo.db.GetContext(ctx, &dev, `SELECT * FROM machine WHERE device_id = $1`, deviceID)
	if err == sql.ErrNoRows {
		return device.Device{}, device.ErrNotFound
	}
	if err != nil {
		return device.Device{}, errors.Wrap(err, "getting device")
	}
	return dev, nil
}

func (repo deviceRepository) CreateDevice(ctx context.Context, dev device.Device) (device.Device, error) {
	err := repo.db.QueryRowxContext(ctx, `
		INSERT INTO machine (
			device_id, secret_key, is_online, is_printing, firmware_version, model,
			up_time, sessions_held, active_session, last_seen_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		dev.DeviceID, dev.SecretKey, dev.IsOnline, dev.IsPrinting, dev.FirmwareVersion, dev.Model,
		dev.UpTime, dev.SessionsHeld, dev.ActiveSession, dev.LastSeenAt, dev.CreatedAt, dev.UpdatedAt,
	).Scan(&dev.ID)
	if err != nil {
		return device.Device{}, errors.Wrap(err, "creating device")
	}
	return dev, nil
}

func (repo deviceRepository) UpdateDevice(ctx context.Context, dev device.Device) (device.Device, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE machine SET
			is_online = $1, is_printing = $2, firmware_version = $3, model = $4,
			up_time = $5, sessions_held = $6, active_session = $7,
			last_seen_at = $8, updated_at = $9
		WHERE id = $10`,
		dev.IsOnline, dev.IsPrinting, dev.FirmwareVersion, dev.Model,
		dev.UpTime, dev.SessionsHeld, dev.ActiveSession,
		dev.LastSeenAt, dev.UpdatedAt, dev.ID,
	)
	if err != nil {
		return device.Device{}, errors.Wrap(err, "updating device")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return device.Device{}, device.ErrNotFound
	}
	return dev, nil
}

func (repo deviceRepository) CreateLocationSample(ctx context.Context, sample device.LocationSample) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO machine_location (machine_id, lat, lng, provider, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sample.MachineID, sample.Lat, sample.Lng, sample.Provider, sample.CreatedAt,
	)
	return errors.Wrap(err, "creating location sample")
}

func (repo deviceRepository) GetPrintEventByKey(ctx context.Context, key string) (device.PrintEvent, error) {
	var ev device.PrintEvent
	err := repo.db.GetContext(ctx, &ev, `SELECT * FROM print_event WHERE idempotency_key = $1`, key)
	if err == sql.ErrNoRows {
		return device.PrintEvent{}, device.ErrEventNotFound
	}
	if err != nil {
		return device.PrintEvent{}, errors.Wrap(err, "getting print event")
	}
	return ev, nil
}

func (repo deviceRepository) CreatePrintEvent(ctx context.Context, ev device.PrintEvent) (device.PrintEvent, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO print_event (id, device_id, print_job_id, type, payload, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.DeviceID, ev.PrintJobID, ev.Type, ev.Payload, ev.IdempotencyKey, ev.CreatedAt,
	)
	if err != nil {
		return device.PrintEvent{}, errors.Wrap(err, "creating print event")
	}
	return ev, nil
}
