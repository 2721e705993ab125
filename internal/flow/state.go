package flow

import "github.com/berryray-tech/Berry-Ray-main/internal/model"

type StateName string

const (
	StateIdle         StateName = "Idle"
	StatePackagesOpen StateName = "PackagesOpen"
	StateFormOpen     StateName = "FormOpen"
	StatePaymentOpen  StateName = "PaymentOpen"
	StateSubmitting   StateName = "Submitting"
)

// State is one of Idle, PackagesOpen, FormOpen, PaymentOpen or Submitting.
type State interface {
	Name() StateName
	isState()
}

type Idle struct{}

type PackagesOpen struct {
	Service model.Service
}

type FormOpen struct {
	Service model.Service
	Package model.Package
}

// PaymentOpen holds everything collected so far. Proof is nil until a valid
// file is selected; LastError carries the message of the last failed submit.
type PaymentOpen struct {
	Service    model.Service
	Package    model.Package
	Registrant model.Registrant
	Proof      *model.ProofOfPayment
	LastError  string
}

type Submitting struct {
	Service    model.Service
	Package    model.Package
	Registrant model.Registrant
	Proof      model.ProofOfPayment
}

func (Idle) Name() StateName         { return StateIdle }
func (PackagesOpen) Name() StateName { return StatePackagesOpen }
func (FormOpen) Name() StateName     { return StateFormOpen }
func (PaymentOpen) Name() StateName  { return StatePaymentOpen }
func (Submitting) Name() StateName   { return StateSubmitting }

func (Idle) isState()         {}
func (PackagesOpen) isState() {}
func (FormOpen) isState()     {}
func (PaymentOpen) isState()  {}
func (Submitting) isState()   {}
