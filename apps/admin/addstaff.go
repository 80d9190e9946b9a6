package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Apollox9/fusion-loom-sub002/core"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

func (cli *commandLine) addStaff(email, name, phone, staffID, role, pwd string) error {
	ctx := context.Background()

	role = core.CleanString(role)
	if !staff.ValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	if err := cli.staffRepo.CheckStaffUniqueness(ctx, core.CleanString(email, true), core.CleanString(staffID)); err != nil {
		return err
	}

	now := time.Now().UTC()
	st := staff.Staff{
		UserID:      uuid.NewString(),
		StaffID:     core.CleanString(staffID),
		Email:       core.CleanString(email, true /* lower */),
		FullName:    core.CleanString(name),
		PhoneNumber: core.CleanString(phone),
		Role:        role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.staffRepo.CreateStaff(ctx, st); err != nil {
		return err
	}
	fmt.Printf("staff created:\n  user_id:  %s\n  staff_id: %s\n", st.UserID, st.StaffID)
	return nil
}
