package dummydb

import (
	"sync"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/core/notification"
	"github.com/Apollox9/fusion-loom-sub002/core/order"
	"github.com/Apollox9/fusion-loom-sub002/core/referral"
	"github.com/Apollox9/fusion-loom-sub002/core/session"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

// DB is an in-memory store backing tests and local development without Postgres.
type DB struct {
	mu sync.RWMutex

	devices         map[string]*device.Device // by DeviceID
	locationSamples []device.LocationSample
	printEvents     map[string]*device.PrintEvent // by IdempotencyKey

	orders     map[string]*order.Order
	orderItems map[string]*order.Item

	operators map[string]*session.Operator
	schools   map[string]*session.School
	sessions  map[string]*session.Session
	classes   map[string]*session.Class
	students  map[string]*session.Student

	staffByUserID map[string]*staff.Staff

	notifications map[string]*notification.Notification

	codes  map[string]*referral.Code // by ID
	agents map[string]*referral.Agent

	devicePK int
}

func Open() (*DB, error) {
	db := &DB{
		devices:       make(map[string]*device.Device),
		printEvents:   make(map[string]*device.PrintEvent),
		orders:        make(map[string]*order.Order),
		orderItems:    make(map[string]*order.Item),
		operators:     make(map[string]*session.Operator),
		schools:       make(map[string]*session.School),
		sessions:      make(map[string]*session.Session),
		classes:       make(map[string]*session.Class),
		students:      make(map[string]*session.Student),
		staffByUserID: make(map[string]*staff.Staff),
		notifications: make(map[string]*notification.Notification),
		codes:         make(map[string]*referral.Code),
		agents:        make(map[string]*referral.Agent),
	}
	return db, nil
}

// Seed helpers; test fixtures go through these instead of the repositories so
// they can set fields the write paths never touch.

func (db *DB) SeedDevice(dev device.Device) device.Device {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.devicePK++
	dev.ID = db.devicePK
	db.devices[dev.DeviceID] = &dev
	return dev
}

func (db *DB) SeedOrder(ord order.Order, items ...order.Item) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.orders[ord.ID] = &ord
	for _, it := range items {
		it := it
		db.orderItems[it.ID] = &it
	}
}

func (db *DB) SeedOperator(op session.Operator) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.operators[op.ID] = &op
}

func (db *DB) SeedSchool(sch session.School) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.schools[sch.ID] = &sch
}

func (db *DB) SeedSession(sess session.Session, classes ...session.Class) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.sessions[sess.ID] = &sess
	for _, cls := range classes {
		cls := cls
		db.classes[cls.ID] = &cls
	}
}

func (db *DB) SeedStudent(st session.Student) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.students[st.ID] = &st
}

func (db *DB) SeedStaff(st staff.Staff) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.staffByUserID[st.UserID] = &st
}

func (db *DB) SeedReferral(code referral.Code, agent referral.Agent) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.codes[code.ID] = &code
	db.agents[agent.ID] = &agent
}

// Notifications returns a snapshot of all enqueued notifications.
func (db *DB) Notifications() []notification.Notification {
	db.mu.RLock()
	defer db.mu.RUnlock()
	nn := make([]notification.Notification, 0, len(db.notifications))
	for _, n := range db.notifications {
		nn = append(nn, *n)
	}
	return nn
}
