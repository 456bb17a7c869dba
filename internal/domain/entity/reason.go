package entity

// ReasonCategory categoría de motivo del asistente de movimientos con sus
// sub-motivos sugeridos. El motivo final se guarda como texto libre en el
// log, así que la lista es orientativa, no restrictiva.
type ReasonCategory struct {
	Category string
	Details  []string
}

// ReasonCategories catálogo estático de motivos, en el orden que los muestra
// el asistente.
var ReasonCategories = []ReasonCategory{
	{Category: "Stock a trabajo", Details: []string{"Instalación nueva", "Reparación/Cambio", "Visita de servicio", "Trabajo en garantía"}},
	{Category: "Recarga de camión", Details: []string{"Recarga diaria", "Pedido especial", "Carga de emergencia"}},
	{Category: "Devolución", Details: []string{"Sin usar/Sobrante", "Repuesto equivocado", "Trabajo cancelado", "Exceso de stock"}},
	{Category: "Daño/Pérdida", Details: []string{"Dañado en transporte", "Dañado en el trabajo", "Perdido/Extraviado", "Defectuoso"}},
	{Category: "Ajuste de auditoría", Details: []string{"Corrección de conteo", "Sobrante encontrado", "Baja definitiva"}},
	{Category: "Otro", Details: []string{}},
}
