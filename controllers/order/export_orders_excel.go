package orderControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/KLR136/Controle-API/logging"
	"github.com/KLR136/Controle-API/models"
	"github.com/KLR136/Controle-API/store"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.ListFilter{Page: 1, Limit: 100}
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
				return
			}
			filter.Status = status
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "OrderRef", "UserID", "Status", "TotalAmount",
			"ShippingAddress", "Lines", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for {
			orders, total, err := st.Orders.List(c.Request.Context(), filter)
			if err != nil {
				logging.From(c).Error("export orders", "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
				return
			}
			for _, o := range orders {
				row := sheet.AddRow()
				row.AddCell().SetValue(int(o.ID))
				row.AddCell().SetValue(o.OrderRef)
				row.AddCell().SetValue(o.UserID)
				row.AddCell().SetValue(string(o.Status))
				row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
				row.AddCell().SetValue(o.ShippingAddress)
				row.AddCell().SetValue(len(o.Items))
				row.AddCell().SetValue(o.CreatedAt.Format(time.RFC3339))
			}
			if int64(filter.Page*filter.Limit) >= total {
				break
			}
			filter.Page++
		}

		fileName := "orders_" + time.Now().Format("20060102_150405") + ".xlsx"
		c.Header("Content-Disposition", "attachment; filename="+fileName)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			logging.From(c).Error("write excel", "err", err)
		}
	}
}
