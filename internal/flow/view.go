package flow

import "github.com/berryray-tech/Berry-Ray-main/internal/model"

type ProofView struct {
	FileName string `json:"file_name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// View is the JSON shape of a flow returned to clients.
type View struct {
	State      StateName         `json:"state"`
	Service    *model.Service    `json:"service,omitempty"`
	Package    *model.Package    `json:"package,omitempty"`
	Registrant *model.Registrant `json:"registrant,omitempty"`
	Proof      *ProofView        `json:"proof,omitempty"`
	LastError  string            `json:"last_error,omitempty"`
}

func proofView(p model.ProofOfPayment) *ProofView {
	return &ProofView{FileName: p.FileName, MIMEType: p.MIMEType, Size: p.Size()}
}

func ViewOf(s State) View {
	v := View{State: s.Name()}
	switch st := s.(type) {
	case PackagesOpen:
		v.Service = &st.Service
	case FormOpen:
		v.Service, v.Package = &st.Service, &st.Package
	case PaymentOpen:
		v.Service, v.Package, v.Registrant = &st.Service, &st.Package, &st.Registrant
		if st.Proof != nil {
			v.Proof = proofView(*st.Proof)
		}
		v.LastError = st.LastError
	case Submitting:
		v.Service, v.Package, v.Registrant = &st.Service, &st.Package, &st.Registrant
		v.Proof = proofView(st.Proof)
	}
	return v
}

func (f *Flow) View() View {
	return ViewOf(f.State())
}
