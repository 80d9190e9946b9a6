package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/Apollox9/fusion-loom-sub002/core/device"
	"github.com/Apollox9/fusion-loom-sub002/core/staff"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// noopReconciler satisfies the device service; the CLI never records print events.
type noopReconciler struct{}

func (noopReconciler) ApplyPrintedCount(context.Context, string, string, int) error { return nil }

type commandLine struct {
	deviceSvc *device.Service
	staffRepo staff.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  registerdevice -id DEVICE_ID [-model MODEL] - provision a device and print its secret key")
	fmt.Println("  addstaff -email EMAIL -name NAME -phone PHONE -staffid STAFF_ID [-role ROLE] - create a staff account")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	registerDeviceCmd := flag.NewFlagSet("registerdevice", flag.ExitOnError)
	registerDeviceID := registerDeviceCmd.String("id", "", "The device identifier printed on the machine.")
	registerDeviceModel := registerDeviceCmd.String("model", "", "Optional hardware model.")

	addStaffCmd := flag.NewFlagSet("addstaff", flag.ExitOnError)
	addStaffEmail := addStaffCmd.String("email", "", "The staff member's email.")
	addStaffName := addStaffCmd.String("name", "", "The staff member's full name.")
	addStaffPhone := addStaffCmd.String("phone", "", "The staff member's phone number.")
	addStaffID := addStaffCmd.String("staffid", "", "The badge staff number.")
	addStaffRole := addStaffCmd.String("role", staff.RoleAdmin, "One of ADMIN, MANAGER, OPERATIONS, SUPPORT. The password will be prompted next.")

	switch args[1] {
	case "registerdevice":
		if err := registerDeviceCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *registerDeviceID == "" {
			registerDeviceCmd.Usage()
			return errHelp
		}
		return cli.registerDevice(*registerDeviceID, *registerDeviceModel)
	case "addstaff":
		if err := addStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStaffEmail == "" || *addStaffName == "" || *addStaffPhone == "" || *addStaffID == "" {
			addStaffCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStaffCmd.Usage()
			return errHelp
		}
		return cli.addStaff(*addStaffEmail, *addStaffName, *addStaffPhone, *addStaffID, *addStaffRole, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
