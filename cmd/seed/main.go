// Command seed bootstraps a demo tenant with students, wallets and a small
// catalog so the API is usable immediately after first start.
package main

import (
	"log"
	"os"

	"cantina/internal/config"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	tenantCode := config.GetEnv("SEED_TENANT_CODE", "demo")
	adminSecret := os.Getenv("SEED_ADMIN_SECRET")
	if adminSecret == "" {
		log.Fatal("SEED_ADMIN_SECRET must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		sqlDB, err := repositories.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	var existing models.Tenant
	if err := repositories.DB.Where("code = ?", tenantCode).First(&existing).Error; err == nil {
		log.Printf("Tenant %q already exists, nothing to do", tenantCode)
		return
	}

	secretHash, err := bcrypt.GenerateFromPassword([]byte(adminSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin secret:", err)
	}

	tenant := models.Tenant{
		Name:            config.GetEnv("SEED_TENANT_NAME", "Cantina Demo"),
		Code:            tenantCode,
		PixProvider:     config.GetEnv("SEED_PIX_PROVIDER", models.PixProviderMercadoPago),
		AdminSecretHash: string(secretHash),
	}
	if err := repositories.DB.Create(&tenant).Error; err != nil {
		log.Fatal("Failed to create tenant:", err)
	}

	students := []models.Student{
		{TenantID: tenant.ID, Name: "Ana Souza", Grade: "5A"},
		{TenantID: tenant.ID, Name: "Bruno Lima", Grade: "5B"},
		{TenantID: tenant.ID, Name: "Clara Mendes", Grade: "6A"},
	}
	if err := repositories.DB.Create(&students).Error; err != nil {
		log.Fatal("Failed to create students:", err)
	}

	for _, s := range students {
		wallet := models.Wallet{TenantID: tenant.ID, StudentID: s.ID}
		if err := repositories.DB.Create(&wallet).Error; err != nil {
			log.Fatal("Failed to create wallet:", err)
		}
	}

	items := []models.CatalogItem{
		{TenantID: tenant.ID, Name: "Suco de laranja", PriceCents: 600, IsActive: true},
		{TenantID: tenant.ID, Name: "Pão de queijo", PriceCents: 450, IsActive: true},
		{TenantID: tenant.ID, Name: "Prato do dia", PriceCents: 1800, IsActive: true},
		{TenantID: tenant.ID, Name: "Sobremesa antiga", PriceCents: 500, IsActive: false},
	}
	if err := repositories.DB.Create(&items).Error; err != nil {
		log.Fatal("Failed to create catalog items:", err)
	}

	log.Printf("Seeded tenant %q (id=%d) with %d students and %d catalog items",
		tenant.Code, tenant.ID, len(students), len(items))
}
