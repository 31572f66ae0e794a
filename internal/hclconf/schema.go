package hclconf

// fileRoot decodes the top-level blocks of one configuration file. Every
// block and every attribute is optional; attributes a file does not set
// keep their current values, so later files override earlier ones
// attribute-wise.
type fileRoot struct {
	Input *inputBlock `hcl:"input,block"`
	Data  *dataBlock  `hcl:"data,block"`
	Model *modelBlock `hcl:"model,block"`
	Run   *runBlock   `hcl:"run,block"`
}

type inputBlock struct {
	File           *string `hcl:"file,optional"`
	FileList       *string `hcl:"file_list,optional"`
	OutDir         *string `hcl:"out_dir,optional"`
	DispersionFile *string `hcl:"dispersion_file,optional"`
	LogDir         *string `hcl:"log_dir,optional"`
}

type dataBlock struct {
	UsePhotometry    *bool `hcl:"use_photometry,optional"`
	UseSpectroscopy  *bool `hcl:"use_spectroscopy,optional"`
	FilterPhoto      *bool `hcl:"filter_photometry,optional"`
	FilterSpec       *bool `hcl:"filter_spectroscopy,optional"`
	UseMask          *bool `hcl:"use_mask,optional"`
	FitOutliersPhoto *bool `hcl:"fit_outliers_photometry,optional"`
	FitOutliersSpec  *bool `hcl:"fit_outliers_spectroscopy,optional"`
}

type modelBlock struct {
	NBins            *int               `hcl:"nbins,optional"`
	Redshift         *float64           `hcl:"redshift,optional"`
	FixedZ           *bool              `hcl:"fixed_z,optional"`
	AddNebular       *bool              `hcl:"add_nebular,optional"`
	AddDuste         *bool              `hcl:"add_duste,optional"`
	AddDust1         *bool              `hcl:"add_dust1,optional"`
	AddSigmaV        *bool              `hcl:"add_sigmav,optional"`
	MarginElines     *bool              `hcl:"margin_elines,optional"`
	FitElineRedshift *bool              `hcl:"fit_eline_redshift,optional"`
	ZContinuous      *int               `hcl:"zcontinuous,optional"`
	Lines            map[string]float64 `hcl:"lines,optional"`
}

type runBlock struct {
	Backend         *string           `hcl:"backend,optional"`
	Workers         *int              `hcl:"workers,optional"`
	Verbose         *bool             `hcl:"verbose,optional"`
	HealthcheckPort *int              `hcl:"healthcheck_port,optional"`
	Options         map[string]string `hcl:"options,optional"`
}
