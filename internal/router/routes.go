package router

// Route names
const (
	NameLogin             = "login"
	NameDashboard         = "dashboard"
	NameCompanies         = "companies"
	NameAutomation        = "automation"
	NameVouchers          = "vouchers"
	NameVoucherProposal   = "voucher-proposal"
	NameVoucherDownload   = "voucher-download"
	NameVoucherRepository = "voucher-repository"
	NameWelcome           = "welcome"
)

// Paths the rest of the shell refers to directly
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Meta flags a route for the navigation guard
type Meta struct {
	RequiresAuth bool
	Guest        bool `validate:"excluded_with=RequiresAuth"`
}

// Route describes one entry of the route table.
// Child paths are relative to their parent unless they start with "/".
type Route struct {
	Path     string `validate:"required"`
	Name     string `validate:"omitempty,alphanumdash"`
	View     string `validate:"required_without_all=Redirect Children"`
	Redirect string
	Meta     Meta
	Children []Route `validate:"dive"`
}

// Routes returns the application route table. Each call returns a fresh copy.
func Routes() []Route {
	return []Route{
		{Path: "/", Redirect: DashboardPath},
		{Path: LoginPath, Name: NameLogin, View: "Login", Meta: Meta{Guest: true}},
		{Path: DashboardPath, Name: NameDashboard, View: "Dashboard", Meta: Meta{RequiresAuth: true}},
		{Path: "/empresas", Name: NameCompanies, View: "Companies", Meta: Meta{RequiresAuth: true}},
		{Path: "/automatizacion", Name: NameAutomation, View: "Automation", Meta: Meta{RequiresAuth: true}},
		{
			Path:     "/comprobantes",
			Name:     NameVouchers,
			Redirect: "/comprobantes/propuesta",
			Meta:     Meta{RequiresAuth: true},
			Children: []Route{
				{Path: "propuesta", Name: NameVoucherProposal, View: "VoucherProposal"},
				{Path: "descarga", Name: NameVoucherDownload, View: "VoucherDownload"},
				{Path: "repositorio", Name: NameVoucherRepository, View: "VoucherRepository"},
			},
		},
		{Path: "/bienvenida", Name: NameWelcome, View: "Welcome"},
	}
}
