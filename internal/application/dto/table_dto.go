package dto

import "github.com/jhoicas/balcao-digital-api/internal/domain/entity"

// ConfigureTablesRequest reemplaza las mesas por 1..Count.
type ConfigureTablesRequest struct {
	Count int `json:"count" validate:"min=1,max=100"`
}

// SetTableStatusRequest cambio manual (free | reserved).
type SetTableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=free reserved"`
}

// TableResponse salida de una mesa.
type TableResponse struct {
	ID       string `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// TableSummary conteo de mesas por estado.
type TableSummary struct {
	Total    int `json:"total"`
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
	Reserved int `json:"reserved"`
}

// TablesResponse mesas más su resumen.
type TablesResponse struct {
	Items   []TableResponse `json:"items"`
	Summary TableSummary    `json:"summary"`
}

// FromTables mapea y resume.
func FromTables(list []*entity.Table) TablesResponse {
	resp := TablesResponse{Items: make([]TableResponse, 0, len(list))}
	for _, t := range list {
		resp.Items = append(resp.Items, TableResponse{ID: t.ID, Number: t.Number, Capacity: t.Capacity, Status: string(t.Status)})
		resp.Summary.Total++
		switch t.Status {
		case entity.TableFree:
			resp.Summary.Free++
		case entity.TableOccupied:
			resp.Summary.Occupied++
		case entity.TableReserved:
			resp.Summary.Reserved++
		}
	}
	return resp
}
