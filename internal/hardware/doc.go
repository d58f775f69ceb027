// Package hardware inspects the host for the capabilities that drive model
// tier selection: an NVIDIA accelerator and its memory, Apple unified memory,
// and total system RAM.
//
// Probing never fails. Missing tools or unreadable counters leave the
// corresponding fields zero, which resolves to the CPU and the Eco tier.
package hardware
