package directory

// Seed returns the static development directory. Production deployments
// load the directory from Mongo instead; this list exists so the service
// works end to end against the homologation upstream without a database
// import.
func Seed() []Entry {
	return []Entry{
		{Phone: "42154393888", Document: "42154393888", Name: "Alvaro Montero"},
		{Phone: "98765432100", Document: "98765432100", Name: "Usuário de Teste 2"},
		{Phone: "02604738554", Document: "02604738554", Name: "Alvaro Montero"},
		{Phone: "06212643342", Document: "06212643342", Name: "Usuário Teste 062"},
		{Phone: "52116745888", Document: "52116745888", Name: "Usuário Teste 521"},
		{Phone: "12144201684", Document: "12144201684", Name: "Usuário Teste 121"},
		{Phone: "46483299885", Document: "46483299885", Name: "Usuário Teste 464"},
		{Phone: "26776559856", Document: "26776559856", Name: "Usuário Teste 267"},
		{Phone: "04513675020", Document: "04513675020", Name: "Usuário Teste 045"},
		{Phone: "02637364238", Document: "02637364238", Name: "Usuário Teste 0263"},
		{Phone: "06430897052", Document: "06430897052", Name: "Usuário Teste 064"},
		{Phone: "10173421997", Document: "10173421997", Name: "Usuário Teste 101"},
		{Phone: "04065282330", Document: "04065282330", Name: "Usuário Teste 040"},
		{Phone: "09241820918", Document: "09241820918", Name: "Usuário Teste 092"},
		{Phone: "63618955308", Document: "63618955308", Name: "Usuário Teste 636"},
		{Phone: "+525510609610", Document: "02637364238", Name: "Usuário Default"},
	}
}
