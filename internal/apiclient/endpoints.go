package apiclient

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"time"
)

// Company is a registered taxpayer ("empresa")
type Company struct {
	RUC            string     `json:"ruc"`
	RazonSocial    string     `json:"razon_social"`
	UsuarioSol     *string    `json:"usuario_sol"`
	Activo         bool       `json:"activo"`
	EstadoSesion   string     `json:"estado_sesion"`
	UltimaRevision *time.Time `json:"ultima_revision"`
	LastRunStatus  string     `json:"last_run_status"`
	LastRunAt      *time.Time `json:"last_run_at"`
	LastRunError   *string    `json:"last_run_error"`
}

// DashboardStats feeds the dashboard widgets
type DashboardStats struct {
	TotalEmpresas int `json:"total_empresas"`
	RunsToday     struct {
		Total              int     `json:"total"`
		Success            int     `json:"success"`
		Error              int     `json:"error"`
		SuccessRatePercent float64 `json:"success_rate_percent"`
	} `json:"runs_today"`
	Notifications struct {
		TotalDownloaded int `json:"total_downloaded"`
		PendingAction   int `json:"pending_action"`
	} `json:"notifications"`
}

// AutomationSummary counts companies by last run status
type AutomationSummary struct {
	TotalEmpresas int `json:"total_empresas"`
	Pendientes    int `json:"pendientes"`
	Procesando    int `json:"procesando"`
	Completados   int `json:"completados"`
	SinNovedades  int `json:"sin_novedades"`
	Errores       int `json:"errores"`
}

// AutomationRunRequest enqueues mailbox runs
type AutomationRunRequest struct {
	Mode        string   `json:"mode"` // todo | solo_fallidos | pendientes
	DaysBack    int      `json:"days_back"`
	ShowBrowser bool     `json:"show_browser"`
	RUCs        []string `json:"rucs,omitempty"`
}

// AutomationRun is one queued mailbox run
type AutomationRun struct {
	ID         int    `json:"id"`
	RUCEmpresa string `json:"ruc_empresa"`
	Status     string `json:"status"`
}

// AutomationRunResponse is returned by run and runs
type AutomationRunResponse struct {
	OK     bool            `json:"ok"`
	Runs   []AutomationRun `json:"runs"`
	Errors []string        `json:"errors"`
}

// XMLProgress tracks XML evidence downloads for a company and period
type XMLProgress struct {
	RUC             string `json:"ruc"`
	Periodo         string `json:"periodo"`
	TotalItems      int    `json:"total_items"`
	TotalEvidencias int    `json:"total_evidencias"`
	OK              int    `json:"ok"`
	Error           int    `json:"error"`
	NotFound        int    `json:"not_found"`
	Auth            int    `json:"auth"`
	Pending         int    `json:"pending"`
	Remaining       int    `json:"remaining"`
}

// ListCompanies returns all registered companies
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := c.Get(ctx, "/empresas/", &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// DashboardStats returns the global dashboard metrics
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AutomationStatus returns the per-status summary of the last runs
func (c *Client) AutomationStatus(ctx context.Context) (*AutomationSummary, error) {
	var resp struct {
		Resumen AutomationSummary `json:"resumen"`
	}
	if err := c.Get(ctx, "/automatizacion/status", &resp); err != nil {
		return nil, err
	}
	return &resp.Resumen, nil
}

// RunAutomation enqueues one run per eligible company
func (c *Client) RunAutomation(ctx context.Context, req AutomationRunRequest) (*AutomationRunResponse, error) {
	var resp AutomationRunResponse
	if err := c.Post(ctx, "/automatizacion/run", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopAutomation asks running jobs to stop after the current company
func (c *Client) StopAutomation(ctx context.Context, ruc string) error {
	path := "/automatizacion/stop"
	if ruc != "" {
		path += "?" + url.Values{"ruc": {ruc}}.Encode()
	}
	return c.Post(ctx, path, nil, nil)
}

// ProposalPeriods lists the periods (YYYYMM) with a downloaded proposal
func (c *Client) ProposalPeriods(ctx context.Context) ([]string, error) {
	var periods []string
	if err := c.Get(ctx, "/propuesta/periods", &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

// Amount is a money value; the backend sends decimals either as JSON
// numbers or as strings
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if string(data) == "null" {
		*a = ""
		return nil
	}
	*a = Amount(data)
	return nil
}

// ProposalFile is the downloaded RCE proposal of a company and period
type ProposalFile struct {
	ID          int       `json:"id"`
	RUCEmpresa  string    `json:"ruc_empresa"`
	Periodo     string    `json:"periodo"`
	NumTicket   *string   `json:"num_ticket"`
	CodProceso  *string   `json:"cod_proceso"`
	StoragePath string    `json:"storage_path"`
	Filename    *string   `json:"filename"`
	SHA256      *string   `json:"sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProposalItem is one voucher line of a proposal
type ProposalItem struct {
	ID           int     `json:"id"`
	RUCEmpresa   string  `json:"ruc_empresa"`
	Periodo      string  `json:"periodo"`
	FechaEmision string  `json:"fecha_emision"`
	TipoCP       string  `json:"tipo_cp"`
	Serie        string  `json:"serie"`
	Numero       string  `json:"numero"`
	RUCEmisor    string  `json:"ruc_emisor"`
	RazonEmisor  *string `json:"razon_emisor"`
	TotalCP      Amount  `json:"total_cp"`
	Moneda       string  `json:"moneda"`
	EstComp      *string `json:"est_comp"`
}

// ProposalStatus returns the stored proposal file for a company and period
func (c *Client) ProposalStatus(ctx context.Context, ruc, periodo string) (*ProposalFile, error) {
	query := url.Values{"ruc": {ruc}, "periodo": {periodo}}
	var file ProposalFile
	if err := c.Get(ctx, "/propuesta/status?"+query.Encode(), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ProposalItems pages through the voucher lines of a proposal
func (c *Client) ProposalItems(ctx context.Context, ruc, periodo string, limit, offset int) ([]ProposalItem, error) {
	query := url.Values{
		"ruc":     {ruc},
		"periodo": {periodo},
		"limit":   {strconv.Itoa(limit)},
		"offset":  {strconv.Itoa(offset)},
	}
	var items []ProposalItem
	if err := c.Get(ctx, "/propuesta/items?"+query.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// XMLProgress returns the XML download progress for a company and period
func (c *Client) XMLProgress(ctx context.Context, ruc, periodo string) (*XMLProgress, error) {
	query := url.Values{"ruc": {ruc}, "periodo": {periodo}}
	var progress XMLProgress
	if err := c.Get(ctx, "/xml/progress?"+query.Encode(), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
