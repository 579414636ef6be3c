package service

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/repository"
)

// SeedService генерирует фейковые данные для тестирования.
type SeedService struct {
	userRepo *repository.UserRepository
	itemRepo *repository.ItemRepository
}

// NewSeedService создаёт новый сервис для генерации данных.
func NewSeedService(userRepo *repository.UserRepository, itemRepo *repository.ItemRepository) *SeedService {
	return &SeedService{
		userRepo: userRepo,
		itemRepo: itemRepo,
	}
}

// SeedData генерирует фейковых пользователей и лоты.
func (s *SeedService) SeedData(ctx context.Context, numUsers int, numItems int) error {
	sellers, err := s.generateUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("seed service: failed to generate users: %w", err)
	}

	if err := s.generateItems(ctx, sellers, numItems); err != nil {
		return fmt.Errorf("seed service: failed to generate items: %w", err)
	}

	return nil
}

// generateUsers создаёт фейковых пользователей и возвращает продавцов.
func (s *SeedService) generateUsers(ctx context.Context, count int) ([]*models.User, error) {
	firstNames := []string{
		"Александр", "Дмитрий", "Максим", "Сергей", "Андрей", "Алексей", "Артём", "Илья",
		"Иван", "Михаил", "Никита", "Роман", "Егор", "Павел", "Владимир", "Константин",
		"Анна", "Мария", "Елена", "Ольга", "Татьяна", "Наталья", "Ирина", "Светлана",
		"Екатерина", "Юлия", "Анастасия", "Дарья", "Виктория", "Полина", "София", "Алиса",
	}
	lastNames := []string{
		"Иванов", "Петров", "Смирнов", "Козлов", "Соколов", "Попов", "Лебедев", "Новиков",
		"Морозов", "Волков", "Соловьёв", "Васильев", "Зайцев", "Павлов", "Семёнов", "Голубев",
		"Виноградов", "Богданов", "Воробьёв", "Фёдоров", "Михайлов", "Белов", "Тарасов", "Беляев",
	}
	domains := []string{"gmail.com", "yandex.ru", "mail.ru", "outlook.com", "yahoo.com"}

	var sellers []*models.User
	passwordHash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)

	for i := 0; i < count; i++ {
		firstName := firstNames[rand.Intn(len(firstNames))]
		lastName := lastNames[rand.Intn(len(lastNames))]
		username := fmt.Sprintf("%s_%s_%d", toLatin(firstName), toLatin(lastName), rand.Intn(10000))
		email := fmt.Sprintf("%s.%s.%d@%s",
			toLatin(firstName), toLatin(lastName), rand.Intn(10000), domains[rand.Intn(len(domains))])

		// Половина продавцов, четверть аукционистов, четверть покупателей.
		var role string
		switch i % 4 {
		case 0, 1:
			role = models.RoleSeller
		case 2:
			role = models.RoleAuctioneer
		default:
			role = models.RoleUser
		}

		user := &models.User{
			Email:        email,
			Username:     username,
			PasswordHash: string(passwordHash),
			Role:         role,
			IsActive:     true,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		if role == models.RoleSeller {
			sellers = append(sellers, user)
		}
	}

	return sellers, nil
}

// generateItems создаёт фейковые лоты.
func (s *SeedService) generateItems(ctx context.Context, sellers []*models.User, count int) error {
	if len(sellers) == 0 {
		return fmt.Errorf("no sellers available to create items")
	}

	names := []string{
		"Антикварные настенные часы XIX века",
		"Картина маслом «Утро в сосновом лесу», копия",
		"Серебряный столовый сервиз на 12 персон",
		"Коллекционная фарфоровая ваза эпохи Цин",
		"Виниловая пластинка The Beatles, первое издание",
		"Механические наручные часы «Полёт», 1965 год",
		"Бронзовая статуэтка всадника",
		"Старинный самовар тульской работы",
		"Коллекция почтовых марок СССР 1950-х годов",
		"Икона в серебряном окладе, XIX век",
		"Граммофон His Master's Voice в рабочем состоянии",
		"Комплект золотых украшений с гранатами",
		"Редкое прижизненное издание Пушкина",
		"Шахматы из слоновой кости, ручная работа",
		"Персидский ковёр ручной работы, начало XX века",
		"Фотоаппарат Leica III, 1936 год",
		"Хрустальная люстра богемского стекла",
		"Монета 5 рублей 1898 года, золото",
		"Гобелен фламандской работы",
		"Письменный стол красного дерева, ампир",
	}

	descriptions := []string{
		"Предмет в отличном состоянии, хранился в частной коллекции. Имеется экспертное заключение о подлинности и возрасте. Передаётся с документами.",
		"Редкий коллекционный экземпляр с незначительными следами времени. Полностью оригинальная комплектация, реставрации не проводилось.",
		"Семейная реликвия, выставляется на торги впервые. Состояние хорошее, есть небольшие потёртости, соответствующие возрасту предмета.",
		"Предмет прошёл профессиональную реставрацию с сохранением оригинальных материалов. Прилагаются фотографии до и после работ.",
		"Происхождение подтверждено документально: предмет приобретён на аукционе в 1998 году, все бумаги сохранены и передаются покупателю.",
		"Экземпляр музейного уровня. Аналогичные предметы находятся в собраниях крупных музеев. Экспертиза проведена в 2024 году.",
	}

	categories := []string{"антиквариат", "живопись", "ювелирные изделия", "часы", "книги", "монеты", "мебель", "техника"}
	conditions := []string{"отличное", "хорошее", "удовлетворительное", "после реставрации"}

	statuses := []string{
		models.ItemStatusDraft,
		models.ItemStatusPendingApproval,
		models.ItemStatusApproved,
		models.ItemStatusRejected,
	}

	for i := 0; i < count; i++ {
		seller := sellers[rand.Intn(len(sellers))]

		startingPrice := float64(rand.Intn(990000)+10000) / 100.0 // 100 - 10000
		reservePrice := startingPrice * (1.0 + rand.Float64())
		bidIncrement := startingPrice * 0.05

		status := statuses[rand.Intn(len(statuses))]
		// Больше одобренных лотов, чтобы каталог не пустовал
		if rand.Float32() > 0.4 {
			status = models.ItemStatusApproved
		}

		item := &models.Item{
			SellerID:      seller.ID,
			Name:          names[rand.Intn(len(names))],
			Description:   descriptions[rand.Intn(len(descriptions))],
			Category:      categories[rand.Intn(len(categories))],
			Condition:     conditions[rand.Intn(len(conditions))],
			StartingPrice: startingPrice,
			ReservePrice:  reservePrice,
			BidIncrement:  bidIncrement,
			Status:        status,
		}

		if err := s.itemRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
	}

	return nil
}

// toLatin транслитерирует русские имена в латиницу для email.
func toLatin(s string) string {
	translit := map[rune]string{
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
		'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
		'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
		'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
		'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
		'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "Yo",
		'Ж': "Zh", 'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M",
		'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U",
		'Ф': "F", 'Х': "H", 'Ц': "Ts", 'Ч': "Ch", 'Ш': "Sh", 'Щ': "Sch",
		'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu", 'Я': "Ya",
	}

	result := ""
	for _, r := range s {
		if val, ok := translit[r]; ok {
			result += val
		} else {
			result += string(r)
		}
	}
	return result
}
