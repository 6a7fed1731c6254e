package vsphere

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/methods"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"thermo-guard/internal/common"
	"thermo-guard/internal/features/fabric/domain"
)

// ConnectorConfig holds the vCenter endpoint and credentials
type ConnectorConfig struct {
	Host     string
	User     string
	Password string
	Insecure bool
}

// Connector opens vCenter sessions. It implements domain.Connector.
type Connector struct {
	config ConnectorConfig
}

// NewConnector creates a new vCenter connector
func NewConnector(config ConnectorConfig) *Connector {
	return &Connector{config: config}
}

// Connect logs into vCenter and returns the open session.
func (c *Connector) Connect(ctx context.Context) (domain.Session, error) {
	u, err := url.Parse(fmt.Sprintf("https://%s/sdk", c.config.Host))
	if err != nil {
		return nil, fmt.Errorf("invalid vCenter host %q: %w", c.config.Host, err)
	}
	u.User = url.UserPassword(c.config.User, c.config.Password)

	client, err := govmomi.NewClient(ctx, u, c.config.Insecure)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vCenter at %s: %w", c.config.Host, err)
	}

	return &session{client: client}, nil
}

// session wraps an authenticated govmomi client. Handles it hands out are
// invalid after Close.
type session struct {
	client *govmomi.Client
	closed bool
}

// check guards every operation against use after Close.
func (s *session) check() error {
	if s.closed {
		return common.NotConnectedError("vCenter session is closed")
	}
	return nil
}

// VirtualMachines enumerates every virtual machine in the inventory.
func (s *session) VirtualMachines(ctx context.Context) ([]domain.VirtualMachine, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	v, err := s.containerView(ctx, "VirtualMachine")
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual machines: %w", err)
	}
	defer v.Destroy(ctx)

	var moVMs []mo.VirtualMachine
	if err := v.Retrieve(ctx, []string{"VirtualMachine"}, []string{"name"}, &moVMs); err != nil {
		return nil, fmt.Errorf("failed to list virtual machines: %w", err)
	}

	vms := make([]domain.VirtualMachine, 0, len(moVMs))
	for _, moVM := range moVMs {
		vms = append(vms, &virtualMachine{
			name:    moVM.Name,
			vm:      object.NewVirtualMachine(s.client.Client, moVM.Self),
			session: s,
		})
	}
	return vms, nil
}

// Hosts enumerates every host in the inventory.
func (s *session) Hosts(ctx context.Context) ([]domain.Host, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	v, err := s.containerView(ctx, "HostSystem")
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer v.Destroy(ctx)

	var moHosts []mo.HostSystem
	if err := v.Retrieve(ctx, []string{"HostSystem"}, []string{"name"}, &moHosts); err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}

	hosts := make([]domain.Host, 0, len(moHosts))
	for _, moHost := range moHosts {
		hosts = append(hosts, &host{
			name:    moHost.Name,
			host:    object.NewHostSystem(s.client.Client, moHost.Self),
			session: s,
		})
	}
	return hosts, nil
}

// Close logs out of vCenter and invalidates every handle the session has
// handed out. Closing twice is a no-op.
func (s *session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.client.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out of vCenter: %w", err)
	}
	return nil
}

// containerView creates a recursive view over the whole inventory tree for
// one managed entity kind.
func (s *session) containerView(ctx context.Context, kind string) (*view.ContainerView, error) {
	m := view.NewManager(s.client.Client)
	return m.CreateContainerView(ctx, s.client.ServiceContent.RootFolder, []string{kind}, true)
}

// retrieveOne fetches the requested properties of a single managed object.
func (s *session) retrieveOne(ctx context.Context, ref types.ManagedObjectReference, ps []string, dst interface{}) error {
	if err := s.check(); err != nil {
		return err
	}

	pc := property.DefaultCollector(s.client.Client)
	return pc.RetrieveOne(ctx, ref, ps, dst)
}

// virtualMachine implements domain.VirtualMachine over a govmomi VM handle.
type virtualMachine struct {
	name    string
	vm      *object.VirtualMachine
	session *session
}

func (v *virtualMachine) Name() string { return v.name }

func (v *virtualMachine) PowerState(ctx context.Context) (domain.PowerState, error) {
	if err := v.session.check(); err != nil {
		return "", err
	}

	state, err := v.vm.PowerState(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read power state of %s: %w", v.name, err)
	}
	switch state {
	case types.VirtualMachinePowerStatePoweredOn:
		return domain.PoweredOn, nil
	case types.VirtualMachinePowerStateSuspended:
		return domain.Suspended, nil
	default:
		return domain.PoweredOff, nil
	}
}

func (v *virtualMachine) GuestToolsRunning(ctx context.Context) (bool, error) {
	if err := v.session.check(); err != nil {
		return false, err
	}

	var moVM mo.VirtualMachine
	if err := v.session.retrieveOne(ctx, v.vm.Reference(), []string{"guest.toolsRunningStatus"}, &moVM); err != nil {
		return false, fmt.Errorf("failed to read guest agent state of %s: %w", v.name, err)
	}
	if moVM.Guest == nil {
		return false, nil
	}
	return moVM.Guest.ToolsRunningStatus == string(types.VirtualMachineToolsRunningStatusGuestToolsRunning), nil
}

func (v *virtualMachine) ShutdownGuest(ctx context.Context) error {
	if err := v.session.check(); err != nil {
		return err
	}
	return v.vm.ShutdownGuest(ctx)
}

func (v *virtualMachine) PowerOff(ctx context.Context) (domain.Task, error) {
	if err := v.session.check(); err != nil {
		return nil, err
	}

	t, err := v.vm.PowerOff(ctx)
	if err != nil {
		return nil, err
	}
	return &task{ref: t.Reference(), session: v.session}, nil
}

// host implements domain.Host over a govmomi host handle.
type host struct {
	name    string
	host    *object.HostSystem
	session *session
}

func (h *host) Name() string { return h.name }

func (h *host) InMaintenanceMode(ctx context.Context) (bool, error) {
	if err := h.session.check(); err != nil {
		return false, err
	}

	var moHost mo.HostSystem
	if err := h.session.retrieveOne(ctx, h.host.Reference(), []string{"runtime.inMaintenanceMode"}, &moHost); err != nil {
		return false, fmt.Errorf("failed to read maintenance mode of %s: %w", h.name, err)
	}
	return moHost.Runtime.InMaintenanceMode, nil
}

func (h *host) EnterMaintenanceMode(ctx context.Context, timeout time.Duration) (domain.Task, error) {
	if err := h.session.check(); err != nil {
		return nil, err
	}

	t, err := h.host.EnterMaintenanceMode(ctx, int32(timeout.Seconds()), false, nil)
	if err != nil {
		return nil, err
	}
	return &task{ref: t.Reference(), session: h.session}, nil
}

func (h *host) Shutdown(ctx context.Context) (domain.Task, error) {
	if err := h.session.check(); err != nil {
		return nil, err
	}

	req := types.ShutdownHost_Task{
		This:  h.host.Reference(),
		Force: false,
	}
	res, err := methods.ShutdownHost_Task(ctx, h.host.Client(), &req)
	if err != nil {
		return nil, err
	}
	return &task{ref: res.Returnval, session: h.session}, nil
}

// task implements domain.Task by reading the task's info property, so the
// caller keeps control of the polling cadence.
type task struct {
	ref     types.ManagedObjectReference
	session *session
}

func (t *task) Status(ctx context.Context) (domain.TaskStatus, string, error) {
	var moTask mo.Task
	if err := t.session.retrieveOne(ctx, t.ref, []string{"info"}, &moTask); err != nil {
		return "", "", fmt.Errorf("failed to read task info: %w", err)
	}

	switch moTask.Info.State {
	case types.TaskInfoStateSuccess:
		return domain.TaskSuccess, "", nil
	case types.TaskInfoStateError:
		reason := "unknown error"
		if moTask.Info.Error != nil {
			reason = moTask.Info.Error.LocalizedMessage
		}
		return domain.TaskError, reason, nil
	default:
		return domain.TaskRunning, "", nil
	}
}
