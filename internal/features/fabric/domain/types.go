package domain

// PowerState is the hypervisor-reported power state of a VM or host
type PowerState string

// Power states
const (
	PoweredOn  PowerState = "poweredOn"
	PoweredOff PowerState = "poweredOff"
	Suspended  PowerState = "suspended"
)

// TaskStatus is the resolution state of an asynchronous management-plane task
type TaskStatus string

// Task states
const (
	TaskRunning TaskStatus = "running"
	TaskSuccess TaskStatus = "success"
	TaskError   TaskStatus = "error"
)
