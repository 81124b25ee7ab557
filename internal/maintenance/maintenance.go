package maintenance

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	custdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	proddomain "github.com/smallbiznis/crm/internal/product/domain"
)

// Jobs bundles the periodic maintenance tasks. Each job appends its
// outcome to its own log file under the configured log directory, in
// addition to structured logging.
type Jobs struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	logDir    string
	httpAddr  string
	customers custdomain.Repository
	orders    orderdomain.Repository
	products  proddomain.Service
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Config    config.Config
	Customers custdomain.Repository
	Orders    orderdomain.Repository
	Products  proddomain.Service
}

func New(p Params) *Jobs {
	return &Jobs{
		db:        p.DB,
		log:       p.Log.Named("maintenance"),
		clock:     p.Clock,
		logDir:    p.Config.JobLogDir,
		httpAddr:  p.Config.HTTPAddr,
		customers: p.Customers,
		orders:    p.Orders,
		products:  p.Products,
	}
}
