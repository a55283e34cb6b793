package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/rce-portal/portal/internal/apiclient"
	"github.com/rce-portal/portal/internal/router"
)

const repositoryPageSize = 200

// ViewFunc renders a route. Views call the backend through the shell's client.
type ViewFunc func(ctx context.Context, s *Shell, match router.Match, out io.Writer) error

var views = map[string]ViewFunc{
	"Login":             loginView,
	"Dashboard":         dashboardView,
	"Companies":         companiesView,
	"Automation":        automationView,
	"VoucherProposal":   voucherProposalView,
	"VoucherDownload":   voucherDownloadView,
	"VoucherRepository": voucherRepositoryView,
	"Welcome":           welcomeView,
}

func loginView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	fmt.Fprintln(out, "Not signed in.")
	fmt.Fprintln(out, "\nSign in with: portal login --username <user>")
	return nil
}

func welcomeView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	fmt.Fprintln(out, "RCE portal - comprobantes, empresas y automatización SUNAT")
	fmt.Fprintln(out, "\nStart with: portal open /dashboard")
	return nil
}

func dashboardView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	stats, err := s.Client.DashboardStats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Empresas activas\t%d\n", stats.TotalEmpresas)
	fmt.Fprintf(w, "Corridas hoy\t%d (ok %d, error %d)\n", stats.RunsToday.Total, stats.RunsToday.Success, stats.RunsToday.Error)
	fmt.Fprintf(w, "Tasa de éxito\t%.2f%%\n", stats.RunsToday.SuccessRatePercent)
	fmt.Fprintf(w, "Notificaciones\t%d descargadas, %d pendientes\n", stats.Notifications.TotalDownloaded, stats.Notifications.PendingAction)
	return w.Flush()
}

func companiesView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	companies, err := s.Client.ListCompanies(ctx)
	if err != nil {
		return err
	}

	if len(companies) == 0 {
		fmt.Fprintln(out, "No companies registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUC\tRAZÓN SOCIAL\tSESIÓN\tÚLTIMA CORRIDA")
	fmt.Fprintln(w, "───\t────────────\t──────\t──────────────")

	for _, company := range companies {
		lastRun := company.LastRunStatus
		if company.LastRunAt != nil {
			lastRun = fmt.Sprintf("%s (%s)", lastRun, company.LastRunAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", company.RUC, company.RazonSocial, company.EstadoSesion, lastRun)
	}

	return w.Flush()
}

func automationView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	summary, err := s.Client.AutomationStatus(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", summary.TotalEmpresas)
	fmt.Fprintf(w, "Pendientes\t%d\n", summary.Pendientes)
	fmt.Fprintf(w, "Procesando\t%d\n", summary.Procesando)
	fmt.Fprintf(w, "Completados\t%d\n", summary.Completados)
	fmt.Fprintf(w, "Sin novedades\t%d\n", summary.SinNovedades)
	fmt.Fprintf(w, "Errores\t%d\n", summary.Errores)
	return w.Flush()
}

func voucherProposalView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	periods, err := s.Client.ProposalPeriods(ctx)
	if err != nil {
		return err
	}

	if len(periods) == 0 {
		fmt.Fprintln(out, "No proposals downloaded yet.")
		return nil
	}

	fmt.Fprintln(out, "Periods with a proposal:")
	for _, period := range periods {
		fmt.Fprintf(out, "  %s\n", period)
	}
	return nil
}

func voucherDownloadView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	query := queryOf(match)
	ruc, periodo := query.Get("ruc"), query.Get("periodo")
	if ruc == "" || periodo == "" {
		fmt.Fprintln(out, "Pick a company and period: portal open '/comprobantes/descarga?ruc=<ruc>&periodo=<YYYYMM>'")
		return nil
	}

	progress, err := s.Client.XMLProgress(ctx, ruc, periodo)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Empresa\t%s\n", progress.RUC)
	fmt.Fprintf(w, "Periodo\t%s\n", progress.Periodo)
	fmt.Fprintf(w, "Comprobantes\t%d\n", progress.TotalItems)
	fmt.Fprintf(w, "XML ok\t%d\n", progress.OK)
	fmt.Fprintf(w, "No encontrados\t%d\n", progress.NotFound)
	fmt.Fprintf(w, "Errores\t%d\n", progress.Error)
	fmt.Fprintf(w, "Restantes\t%d\n", progress.Remaining)
	return w.Flush()
}

func voucherRepositoryView(ctx context.Context, s *Shell, match router.Match, out io.Writer) error {
	query := queryOf(match)
	ruc, periodo := query.Get("ruc"), query.Get("periodo")
	if ruc == "" || periodo == "" {
		return repositoryIndex(ctx, s, out)
	}

	file, err := s.Client.ProposalStatus(ctx, ruc, periodo)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			fmt.Fprintf(out, "No proposal stored for %s %s.\n", ruc, periodo)
			return nil
		}
		return err
	}

	items, err := s.Client.ProposalItems(ctx, ruc, periodo, repositoryPageSize, 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Propuesta %s %s (%s)\n", file.RUCEmpresa, file.Periodo, file.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Archivo: %s\n\n", file.StoragePath)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMISIÓN\tCOMPROBANTE\tEMISOR\tTOTAL")
	fmt.Fprintln(w, "───────\t───────────\t──────\t─────")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s-%s-%s\t%s\t%s %s\n", item.FechaEmision, item.TipoCP, item.Serie, item.Numero, item.RUCEmisor, item.Moneda, item.TotalCP)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d item(s). Download with: portal download --path '%s'\n", len(items), file.StoragePath)
	return nil
}

func repositoryIndex(ctx context.Context, s *Shell, out io.Writer) error {
	companies, err := s.Client.ListCompanies(ctx)
	if err != nil {
		return err
	}
	periods, err := s.Client.ProposalPeriods(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d companies, %d periods on file\n", len(companies), len(periods))
	for _, period := range periods {
		fmt.Fprintf(out, "  %s\n", period)
	}
	fmt.Fprintln(out, "\nBrowse one: portal open '/comprobantes/repositorio?ruc=<ruc>&periodo=<YYYYMM>'")
	fmt.Fprintln(out, "Notification PDFs: portal download --zip --ruc <ruc>")
	return nil
}

func queryOf(match router.Match) url.Values {
	u, err := url.Parse(match.FullPath)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}
