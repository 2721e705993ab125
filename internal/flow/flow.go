package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/registration"
	"github.com/berryray-tech/Berry-Ray-main/pkg/validator"
)

var (
	ErrInvalidTransition    = errors.New("transition not allowed in current state")
	ErrUnknownPackage       = errors.New("package does not belong to the selected service")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrNoProofSelected      = errors.New("please select a file to upload")
)

type Submitter interface {
	Submit(ctx context.Context, sub registration.Submission) (*model.ServiceRegistration, error)
}

// Flow walks one visitor through service selection, the registrant form and
// the payment proof upload. It is safe for concurrent use.
type Flow struct {
	mu        sync.Mutex
	state     State
	submitter Submitter
}

func New(submitter Submitter) *Flow {
	return &Flow{state: Idle{}, submitter: submitter}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func invalid(from State, op string) error {
	if _, busy := from.(Submitting); busy {
		return ErrSubmissionInProgress
	}
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from.Name())
}

// ChooseService opens the package list of svc. Choosing again while the list
// is open replaces the service.
func (f *Flow) ChooseService(svc model.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state.(type) {
	case Idle, PackagesOpen:
		f.state = PackagesOpen{Service: svc}
		return nil
	default:
		return invalid(f.state, "choose service")
	}
}

func (f *Flow) ChoosePackage(packageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.state.(PackagesOpen)
	if !ok {
		return invalid(f.state, "choose package")
	}
	pkg, ok := st.Service.Package(packageID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, packageID)
	}
	f.state = FormOpen{Service: st.Service, Package: pkg}
	return nil
}

// SubmitForm validates the registrant and opens the payment step. Nothing is
// sent anywhere; a validation failure is returned as *validator.FieldError.
func (f *Flow) SubmitForm(ctx context.Context, r model.Registrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.state.(FormOpen)
	if !ok {
		return invalid(f.state, "submit form")
	}
	r = r.Clean()
	if err := validator.Validate(ctx, r); err != nil {
		return err
	}
	f.state = PaymentOpen{Service: st.Service, Package: st.Package, Registrant: r}
	return nil
}

// SelectProof holds a validated proof file. A rejected file leaves the
// previously selected one in place.
func (f *Flow) SelectProof(proof model.ProofOfPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.state.(PaymentOpen)
	if !ok {
		return invalid(f.state, "select proof")
	}
	if err := registration.ValidateProof(proof); err != nil {
		return err
	}
	st.Proof = &proof
	st.LastError = ""
	f.state = st
	return nil
}

// SubmitProof runs the submission pipeline. On success the flow resets to Idle;
// on failure it returns to PaymentOpen with all data kept and the error recorded.
func (f *Flow) SubmitProof(ctx context.Context) (*model.ServiceRegistration, error) {
	f.mu.Lock()
	st, ok := f.state.(PaymentOpen)
	if !ok {
		err := invalid(f.state, "submit proof")
		f.mu.Unlock()
		return nil, err
	}
	if st.Proof == nil {
		st.LastError = ErrNoProofSelected.Error()
		f.state = st
		f.mu.Unlock()
		return nil, ErrNoProofSelected
	}
	f.state = Submitting{Service: st.Service, Package: st.Package, Registrant: st.Registrant, Proof: *st.Proof}
	f.mu.Unlock()

	reg, err := f.submitter.Submit(ctx, registration.Submission{
		Service:    st.Service,
		Package:    st.Package,
		Registrant: st.Registrant,
		Proof:      *st.Proof,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		st.LastError = err.Error()
		f.state = st
		return nil, err
	}
	f.state = Idle{}
	return reg, nil
}

// Cancel discards everything and returns to Idle.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.state.(Submitting); busy {
		return ErrSubmissionInProgress
	}
	f.state = Idle{}
	return nil
}
